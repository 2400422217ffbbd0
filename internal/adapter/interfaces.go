// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote notes service.
//
// The primary abstraction is [NotesAPI], which decouples the sync engine from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPNotesAdapter]) built on resty, a bearer token source that refreshes
// expired access tokens, and a reachability probe ([NewHTTPConnectivityProbe]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrNotFound] for 404, [ErrServiceUnavailable] for 503).
// Failures without any response are wrapped with [ErrTransport].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-notes-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/notes_api_mock.go -package=mock

// NotesAPI defines the mutating operations of the remote notes service that
// can be replayed from the offline queue. Implementations attach
// authentication and map transport failures to the sentinel values defined
// in this package.
type NotesAPI interface {
	// CreateNote sends POST /notes and returns the created note with its
	// server-assigned id.
	CreateNote(ctx context.Context, p models.CreateNotePayload) (models.Note, error)

	// UpdateNote sends PUT /notes/{id}. Returns [ErrNotFound] (wrapped) when
	// the note no longer exists on the server.
	UpdateNote(ctx context.Context, p models.UpdateNotePayload) (models.Note, error)

	// DeleteNote sends DELETE /notes/{id}.
	DeleteNote(ctx context.Context, p models.DeleteNotePayload) error

	// ShareWithUser sends POST /notes/{id}/share/user?email=... and returns
	// the resulting share.
	ShareWithUser(ctx context.Context, p models.ShareNoteWithUserPayload) (models.Share, error)

	// SharePublic sends POST /notes/{id}/share/public and returns the public
	// link token.
	SharePublic(ctx context.Context, p models.ShareNotePublicPayload) (models.PublicLink, error)
}

// ConnectivityProbe samples the current network state.
type ConnectivityProbe interface {
	// Fetch returns the observed state. Reachability is reported as unknown
	// (nil) when the probe could not decide.
	Fetch(ctx context.Context) (models.NetworkState, error)
}
