// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/validators"
	"github.com/MKhiriev/go-notes-sync/models"
)

type notesService struct {
	api       adapter.NotesAPI
	engine    SyncEngine
	monitor   ConnectivityMonitor
	validator validators.Validator

	logger *logger.Logger
}

// NewNotesService returns a [NotesService] that falls back to engine.Enqueue
// whenever a mutation cannot be confirmed by the server right away.
func NewNotesService(api adapter.NotesAPI, engine SyncEngine, monitor ConnectivityMonitor, log *logger.Logger) NotesService {
	return &notesService{
		api:       api,
		engine:    engine,
		monitor:   monitor,
		validator: validators.NewActionValidator(),
		logger:    log,
	}
}

func (s *notesService) CreateNote(ctx context.Context, fields models.NoteFields) (models.MutationResult, error) {
	p := models.CreateNotePayload{NoteFields: fields}
	return s.mutate(ctx, p, func(ctx context.Context) (models.MutationResult, error) {
		note, err := s.api.CreateNote(ctx, p)
		return models.MutationResult{Note: &note}, err
	})
}

func (s *notesService) UpdateNote(ctx context.Context, noteID int64, fields models.NoteFields) (models.MutationResult, error) {
	p := models.UpdateNotePayload{NoteID: noteID, NoteFields: fields}
	return s.mutate(ctx, p, func(ctx context.Context) (models.MutationResult, error) {
		note, err := s.api.UpdateNote(ctx, p)
		return models.MutationResult{Note: &note}, err
	})
}

func (s *notesService) DeleteNote(ctx context.Context, noteID int64) (models.MutationResult, error) {
	p := models.DeleteNotePayload{NoteID: noteID}
	return s.mutate(ctx, p, func(ctx context.Context) (models.MutationResult, error) {
		return models.MutationResult{}, s.api.DeleteNote(ctx, p)
	})
}

func (s *notesService) ShareWithUser(ctx context.Context, noteID int64, email string) (models.MutationResult, error) {
	p := models.ShareNoteWithUserPayload{NoteID: noteID, Email: email}
	return s.mutate(ctx, p, func(ctx context.Context) (models.MutationResult, error) {
		share, err := s.api.ShareWithUser(ctx, p)
		return models.MutationResult{Share: &share}, err
	})
}

func (s *notesService) SharePublic(ctx context.Context, noteID int64) (models.MutationResult, error) {
	p := models.ShareNotePublicPayload{NoteID: noteID}
	return s.mutate(ctx, p, func(ctx context.Context) (models.MutationResult, error) {
		link, err := s.api.SharePublic(ctx, p)
		return models.MutationResult{PublicLink: &link}, err
	})
}

// mutate validates payload, then either calls the server or queues the
// intent. Permanent server rejections are returned to the caller and never
// queued.
func (s *notesService) mutate(
	ctx context.Context,
	payload models.ActionPayload,
	remote func(ctx context.Context) (models.MutationResult, error),
) (models.MutationResult, error) {
	log := s.logger.With().Str("func", "notesService.mutate").Str("kind", string(payload.Kind())).Logger()

	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.MutationResult{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	if s.monitor.IsOffline() {
		log.Debug().Msg("offline, queueing mutation")
		return s.enqueue(ctx, payload)
	}

	result, err := remote(ctx)
	if err == nil {
		return result, nil
	}

	if classifyDispatchError(err) == models.FailurePermanent {
		return models.MutationResult{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}

	log.Warn().Err(err).Msg("remote call failed, queueing mutation")
	return s.enqueue(ctx, payload)
}

func (s *notesService) enqueue(ctx context.Context, payload models.ActionPayload) (models.MutationResult, error) {
	id, err := s.engine.Enqueue(ctx, payload)
	if err != nil {
		return models.MutationResult{}, err
	}
	return models.MutationResult{Queued: true, ActionID: id}, nil
}
