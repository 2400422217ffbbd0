// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
)

type statusPublisher struct {
	listeners *listeners[models.SyncStatus]
}

// NewStatusPublisher returns an empty [StatusPublisher].
func NewStatusPublisher(log *logger.Logger) StatusPublisher {
	return &statusPublisher{listeners: newListeners[models.SyncStatus]("sync_status", log)}
}

func (p *statusPublisher) Subscribe(listener StatusListener) func() {
	return p.listeners.add(listener)
}

// Publish clones status once so listeners never share pointers with the caller.
func (p *statusPublisher) Publish(status models.SyncStatus) {
	p.listeners.notify(status.Clone())
}
