// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/store"
	"github.com/MKhiriev/go-notes-sync/internal/workers"
)

// ClientServices aggregates the sync components of one client process.
type ClientServices struct {
	Queue        ActionQueue
	Publisher    StatusPublisher
	Connectivity ConnectivityMonitor
	Engine       SyncEngine
	Notes        NotesService
	SyncJob      SyncJob

	workers *workers.Workers
}

// NewClientServices builds every component and restores the persisted queue.
func NewClientServices(
	ctx context.Context,
	storages *store.ClientStorages,
	api adapter.NotesAPI,
	probe adapter.ConnectivityProbe,
	cfg *config.ClientConfig,
	log *logger.Logger,
) *ClientServices {
	queue := NewActionQueue(storages.Queue, cfg.Workers.MaxAttempts, log)
	publisher := NewStatusPublisher(log)
	monitor := NewConnectivityMonitor(probe, cfg.Connectivity.Interval, log)
	engine := NewSyncEngine(queue, api, monitor, publisher, storages.DeadLetters, log)

	queue.Load(ctx)

	job := NewSyncJob(engine, monitor, cfg.Workers, log)

	return &ClientServices{
		Queue:        queue,
		Publisher:    publisher,
		Connectivity: monitor,
		Engine:       engine,
		Notes:        NewNotesService(api, engine, monitor, log),
		SyncJob:      job,
		// monitor starts before the job and stops after it
		workers: workers.NewWorkers(monitor, job),
	}
}

// Start launches connectivity polling and the background sync job.
func (s *ClientServices) Start(ctx context.Context) {
	s.workers.Start(ctx)
}

// Stop shuts down the background sync job before connectivity polling.
func (s *ClientServices) Stop() {
	s.workers.Stop()
}
