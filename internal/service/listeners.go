// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
)

type listenerEntry[T any] struct {
	id uint64
	fn func(T)
}

// listeners is an ordered set of callbacks. notify iterates a copy of the set,
// so callbacks may subscribe or unsubscribe while being notified.
type listeners[T any] struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []listenerEntry[T]

	name   string
	logger *logger.Logger
}

func newListeners[T any](name string, log *logger.Logger) *listeners[T] {
	return &listeners[T]{name: name, logger: log}
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]listenerEntry[T], 0, len(l.entries))
	for _, e := range l.entries {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	l.entries = kept
}

func (l *listeners[T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *listeners[T]) notify(v T) {
	l.mu.RLock()
	snapshot := make([]listenerEntry[T], len(l.entries))
	copy(snapshot, l.entries)
	l.mu.RUnlock()

	for _, e := range snapshot {
		l.call(e, v)
	}
}

func (l *listeners[T]) call(e listenerEntry[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().
				Str("func", "listeners.notify").
				Str("listeners", l.name).
				Uint64("listener_id", e.id).
				Interface("panic", r).
				Msg("listener panicked")
		}
	}()
	e.fn(v)
}
