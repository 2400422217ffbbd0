// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the offline-first synchronization core of the
// notes client: the durable action queue, the connectivity monitor, the sync
// engine that drains the queue against the notes API, the status publisher,
// and the online-first notes service built on top of them.
//
// Every component is constructed explicitly and owns its own lifecycle; there
// are no package-level singletons.
package service

import (
	"context"

	"github.com/MKhiriev/go-notes-sync/models"
)

// StatusListener receives every published [models.SyncStatus].
type StatusListener func(status models.SyncStatus)

// NetworkListener receives connectivity observations that differ from the
// previous one.
type NetworkListener func(state models.NetworkState)

// AbandonListener is told about every action dropped without reaching the
// server.
type AbandonListener func(record models.AbandonedAction)

// ActionQueue is the ordered, persisted list of pending mutation intents.
// Every mutation writes the full list to storage before it becomes visible
// in memory; a failed write leaves the in-memory queue untouched.
type ActionQueue interface {
	// Load replaces the in-memory queue with the persisted one. Absent or
	// corrupt state yields an empty queue and a warning; Load never fails.
	Load(ctx context.Context)

	// Append builds a new action for payload, persists the extended queue and
	// returns the generated action id.
	Append(ctx context.Context, payload models.ActionPayload) (string, error)

	// Snapshot returns a copy of the queue in insertion order.
	Snapshot() []models.QueuedAction

	// Remove deletes the action with id. Removing an unknown id is a no-op.
	Remove(ctx context.Context, id string) error

	// ReplaceAll substitutes the whole queue.
	ReplaceAll(ctx context.Context, actions []models.QueuedAction) error

	// CommitPass applies the result of a drain pass: actions of snapshot are
	// replaced by their retained version or dropped, actions appended after
	// the snapshot was taken are kept in place.
	CommitPass(ctx context.Context, snapshot, retained []models.QueuedAction) error

	// Clear drops every pending action.
	Clear(ctx context.Context) error

	// Len returns the number of pending actions.
	Len() int

	// OnChange registers fn to be called with the new length after every
	// successful mutation.
	OnChange(fn func(pending int))
}

// StatusPublisher is an in-process fan-out of sync status updates.
type StatusPublisher interface {
	// Subscribe registers listener and returns a function that removes it.
	// The returned function is safe to call more than once.
	Subscribe(listener StatusListener) (unsubscribe func())

	// Publish delivers status to every listener registered at the time of the
	// call, synchronously and in registration order. A panicking listener
	// does not prevent delivery to the others.
	Publish(status models.SyncStatus)
}

// ConnectivityMonitor tracks network reachability.
type ConnectivityMonitor interface {
	// Current returns the last observation.
	Current() models.NetworkState

	// IsOffline is a shortcut for Current().IsOffline().
	IsOffline() bool

	// Subscribe registers listener for state changes.
	Subscribe(listener NetworkListener) (unsubscribe func())

	// Update records an observation pushed by the platform and notifies
	// listeners when it differs from the previous one.
	Update(state models.NetworkState)

	// Start begins polling the connectivity probe until ctx is done or Stop
	// is called.
	Start(ctx context.Context)

	// Stop ends polling and waits for the poller to exit.
	Stop()
}

// SyncEngine drains the action queue against the notes API.
type SyncEngine interface {
	// TriggerSync runs one drain pass. It returns [ErrSyncInProgress]
	// immediately when another pass is running.
	TriggerSync(ctx context.Context) (models.PassReport, error)

	// Enqueue validates payload and appends it to the queue.
	Enqueue(ctx context.Context, payload models.ActionPayload) (string, error)

	// GetStatus returns a copy of the current status.
	GetStatus() models.SyncStatus

	// Subscribe registers a status listener.
	Subscribe(listener StatusListener) (unsubscribe func())

	// OnAbandon registers a listener for abandoned actions.
	OnAbandon(listener AbandonListener) (unsubscribe func())

	// Abandoned lists dead-lettered actions, most recent first.
	Abandoned(ctx context.Context, limit int) ([]models.AbandonedAction, error)
}

// NotesService performs note mutations online-first: the remote API is tried
// when the device is online, and the intent is queued when it is offline or
// the call fails with a transient error.
type NotesService interface {
	CreateNote(ctx context.Context, fields models.NoteFields) (models.MutationResult, error)
	UpdateNote(ctx context.Context, noteID int64, fields models.NoteFields) (models.MutationResult, error)
	DeleteNote(ctx context.Context, noteID int64) (models.MutationResult, error)
	ShareWithUser(ctx context.Context, noteID int64, email string) (models.MutationResult, error)
	SharePublic(ctx context.Context, noteID int64) (models.MutationResult, error)
}

// SyncJob runs drain passes in the background: on a fixed interval, when
// connectivity comes back, and on demand.
type SyncJob interface {
	Start(ctx context.Context)
	Stop()
	// Trigger asks for a pass as soon as possible. Requests made while one
	// is already pending are merged.
	Trigger(reason string)
}
