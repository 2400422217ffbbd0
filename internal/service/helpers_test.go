// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
)

// memQueueStorage keeps the last written document in memory.
type memQueueStorage struct {
	mu       sync.Mutex
	data     []byte
	writes   int
	writeErr error
	readErr  error
}

func (m *memQueueStorage) ReadQueue(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memQueueStorage) WriteQueue(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memQueueStorage) failWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *memQueueStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// memDeadLetters records abandoned actions in memory.
type memDeadLetters struct {
	mu      sync.Mutex
	records []models.AbandonedAction
}

func (m *memDeadLetters) AppendAbandoned(_ context.Context, record models.AbandonedAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memDeadLetters) ListAbandoned(_ context.Context, limit int) ([]models.AbandonedAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AbandonedAction, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		out = append(out, m.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestQueue(t *testing.T, storage *memQueueStorage) *actionQueue {
	t.Helper()
	return NewActionQueue(storage, models.DefaultMaxAttempts, logger.Nop()).(*actionQueue)
}

func onlineMonitor() *connectivityMonitor {
	return NewConnectivityMonitor(nil, 0, logger.Nop()).(*connectivityMonitor)
}

func offlineState() models.NetworkState {
	return models.NetworkState{IsConnected: false, Type: "none"}
}

func onlineState() models.NetworkState {
	return models.NetworkState{IsConnected: true, IsInternetReachable: models.Reachable(true), Type: "eth0"}
}

func actionIDs(actions []models.QueuedAction) []string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}
