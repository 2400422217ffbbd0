// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
)

type connectivityMonitor struct {
	probe    adapter.ConnectivityProbe
	interval time.Duration

	stateMu sync.RWMutex
	state   models.NetworkState

	listeners *listeners[models.NetworkState]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewConnectivityMonitor creates a monitor that starts out optimistic:
// connected with unknown reachability. probe may be nil when observations are
// only pushed through Update.
func NewConnectivityMonitor(probe adapter.ConnectivityProbe, interval time.Duration, log *logger.Logger) ConnectivityMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &connectivityMonitor{
		probe:     probe,
		interval:  interval,
		state:     models.NetworkState{IsConnected: true},
		listeners: newListeners[models.NetworkState]("network_state", log),
		logger:    log,
	}
}

func (m *connectivityMonitor) Current() models.NetworkState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *connectivityMonitor) IsOffline() bool {
	return m.Current().IsOffline()
}

func (m *connectivityMonitor) Subscribe(listener NetworkListener) func() {
	return m.listeners.add(listener)
}

func (m *connectivityMonitor) Update(state models.NetworkState) {
	m.stateMu.Lock()
	prev := m.state
	if prev.Equal(state) {
		m.stateMu.Unlock()
		return
	}
	m.state = state
	m.stateMu.Unlock()

	if prev.IsOffline() != state.IsOffline() {
		m.logger.Info().
			Str("func", "connectivityMonitor.Update").
			Bool("offline", state.IsOffline()).
			Str("type", state.Type).
			Msg("connectivity changed")
	}

	m.listeners.notify(state)
}

// Start polls the probe once immediately and then every interval. It is a
// no-op without a probe.
func (m *connectivityMonitor) Start(ctx context.Context) {
	if m.probe == nil {
		return
	}

	m.Stop()

	m.mu.Lock()
	pollCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.interval)
		defer t.Stop()

		m.poll(pollCtx)
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-t.C:
				m.poll(pollCtx)
			}
		}
	}()
}

func (m *connectivityMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *connectivityMonitor) poll(ctx context.Context) {
	state, err := m.probe.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn().Str("func", "connectivityMonitor.poll").Err(err).Msg("connectivity probe failed")
		}
		return
	}
	m.Update(state)
}
