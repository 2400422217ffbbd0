// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/store"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/internal/validators"
	"github.com/MKhiriev/go-notes-sync/models"
)

type syncEngine struct {
	queue       ActionQueue
	api         adapter.NotesAPI
	monitor     ConnectivityMonitor
	publisher   StatusPublisher
	deadLetters store.DeadLetterStorage
	validator   validators.Validator
	now         func() time.Time

	running atomic.Bool

	statusMu sync.RWMutex
	status   models.SyncStatus

	abandonListeners *listeners[models.AbandonedAction]

	logger *logger.Logger
}

// NewSyncEngine wires the engine to its collaborators and starts tracking the
// queue length. deadLetters may be nil, in which case abandoned actions are
// only logged and published.
func NewSyncEngine(
	queue ActionQueue,
	api adapter.NotesAPI,
	monitor ConnectivityMonitor,
	publisher StatusPublisher,
	deadLetters store.DeadLetterStorage,
	log *logger.Logger,
) SyncEngine {
	e := &syncEngine{
		queue:            queue,
		api:              api,
		monitor:          monitor,
		publisher:        publisher,
		deadLetters:      deadLetters,
		validator:        validators.NewActionValidator(),
		now:              time.Now,
		status:           models.SyncStatus{PendingCount: queue.Len()},
		abandonListeners: newListeners[models.AbandonedAction]("abandoned_actions", log),
		logger:           log,
	}
	queue.OnChange(e.onQueueChange)

	return e
}

// TriggerSync drains a snapshot of the queue in order. Per-action failures
// never abort the pass. The pass is not interrupted when ctx is cancelled;
// request timeouts bound its duration instead.
func (e *syncEngine) TriggerSync(ctx context.Context) (models.PassReport, error) {
	if !e.running.CompareAndSwap(false, true) {
		return models.PassReport{}, ErrSyncInProgress
	}
	defer e.running.Store(false)

	trigger, ok := utils.GetSyncTriggerFromContext(ctx)
	if !ok {
		trigger = TriggerManual
	}
	log := e.logger.With().Str("func", "syncEngine.TriggerSync").Str("trigger", trigger).Logger()

	passCtx := context.WithoutCancel(ctx)
	snapshot := e.queue.Snapshot()
	report := models.PassReport{StartedAt: e.now(), Outcomes: make([]models.ActionOutcome, 0, len(snapshot))}

	e.updateStatus(func(s *models.SyncStatus) {
		s.IsSyncing = true
		s.LastError = ""
		s.InFlight = len(snapshot)
		s.Processed = 0
	})
	log.Debug().Int("in_flight", len(snapshot)).Msg("sync pass started")

	retained := make([]models.QueuedAction, 0, len(snapshot))
	var abandoned []models.AbandonedAction

	for i, action := range snapshot {
		outcome, next := e.dispatch(passCtx, action)
		report.Outcomes = append(report.Outcomes, outcome)

		switch outcome.Result {
		case models.ResultSucceeded:
			report.Succeeded++
		case models.ResultRetry:
			report.Retried++
			retained = append(retained, next)
		case models.ResultAbandoned:
			report.Abandoned++
			abandoned = append(abandoned, models.AbandonedAction{
				Action:      next,
				Failure:     outcome.Failure,
				Reason:      outcome.Error,
				AbandonedAt: e.now().UTC(),
			})
		}

		processed := i + 1
		e.updateStatus(func(s *models.SyncStatus) { s.Processed = processed })
	}

	var passErr error
	if len(snapshot) > 0 {
		if err := e.queue.CommitPass(passCtx, snapshot, retained); err != nil {
			passErr = err
			report.Err = err.Error()
			// the persisted queue still holds the whole snapshot, so nothing
			// was actually dropped
			abandoned = nil
			report.Abandoned = 0
			log.Error().Err(err).Msg("could not persist pass result, snapshot will be replayed")
		}
	}

	for _, record := range abandoned {
		e.abandon(passCtx, record)
	}

	report.FinishedAt = e.now()
	e.updateStatus(func(s *models.SyncStatus) {
		finished := report.FinishedAt
		s.IsSyncing = false
		s.InFlight = 0
		s.Processed = 0
		s.PendingCount = e.queue.Len()
		if passErr != nil {
			s.LastError = passErr.Error()
			return
		}
		s.LastSyncAt = &finished
	})

	log.Info().
		Int("succeeded", report.Succeeded).
		Int("retried", report.Retried).
		Int("abandoned", report.Abandoned).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("sync pass finished")

	return report, passErr
}

// dispatch resolves one action and returns the version of it to keep.
func (e *syncEngine) dispatch(ctx context.Context, action models.QueuedAction) (models.ActionOutcome, models.QueuedAction) {
	outcome := models.ActionOutcome{
		ActionID: action.ID,
		Kind:     action.Kind,
		Attempts: action.Attempts,
	}

	if e.monitor.IsOffline() {
		outcome.Result = models.ResultRetry
		return outcome, action
	}

	outcome.Dispatched = true
	err := e.call(ctx, action)
	if err == nil {
		outcome.Result = models.ResultSucceeded
		return outcome, action
	}

	class := classifyDispatchError(err)
	action.Attempts++
	outcome.Attempts = action.Attempts
	outcome.Failure = class
	outcome.Error = err.Error()

	if errors.Is(err, errDispatchPanic) {
		e.updateStatus(func(s *models.SyncStatus) { s.LastError = err.Error() })
	}

	if class == models.FailurePermanent || action.Exhausted() {
		outcome.Result = models.ResultAbandoned
	} else {
		outcome.Result = models.ResultRetry
	}

	e.logger.Warn().
		Str("func", "syncEngine.dispatch").
		Str("action_id", action.ID).
		Str("kind", string(action.Kind)).
		Int("attempts", action.Attempts).
		Int("max_attempts", action.MaxAttempts).
		Str("failure", string(class)).
		Str("result", string(outcome.Result)).
		Err(err).
		Msg("dispatch failed")

	return outcome, action
}

func (e *syncEngine) call(ctx context.Context, action models.QueuedAction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errDispatchPanic, r)
			e.logger.Error().
				Str("func", "syncEngine.call").
				Str("action_id", action.ID).
				Interface("panic", r).
				Msg("dispatch panicked")
		}
	}()

	switch p := action.Payload.(type) {
	case models.CreateNotePayload:
		_, err = e.api.CreateNote(ctx, p)
	case models.UpdateNotePayload:
		_, err = e.api.UpdateNote(ctx, p)
	case models.DeleteNotePayload:
		err = e.api.DeleteNote(ctx, p)
	case models.ShareNoteWithUserPayload:
		_, err = e.api.ShareWithUser(ctx, p)
	case models.ShareNotePublicPayload:
		_, err = e.api.SharePublic(ctx, p)
	default:
		err = fmt.Errorf("%w: %q", models.ErrUnknownActionKind, action.Kind)
	}
	return err
}

func (e *syncEngine) abandon(ctx context.Context, record models.AbandonedAction) {
	e.logger.Error().
		Str("func", "syncEngine.abandon").
		Str("action_id", record.Action.ID).
		Str("kind", string(record.Action.Kind)).
		Int("attempts", record.Action.Attempts).
		Str("failure", string(record.Failure)).
		Str("reason", record.Reason).
		Msg("action abandoned")

	if e.deadLetters != nil {
		if err := e.deadLetters.AppendAbandoned(ctx, record); err != nil {
			e.logger.Error().Str("func", "syncEngine.abandon").Str("action_id", record.Action.ID).Err(err).Msg("could not record abandoned action")
		}
	}

	e.updateStatus(func(s *models.SyncStatus) {
		r := record
		s.AbandonedCount++
		s.LastAbandoned = &r
	})
	e.abandonListeners.notify(record)
}

func (e *syncEngine) Enqueue(ctx context.Context, payload models.ActionPayload) (string, error) {
	if payload == nil {
		return "", ErrEmptyPayload
	}
	if err := e.validator.Validate(ctx, payload); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	return e.queue.Append(ctx, payload)
}

func (e *syncEngine) GetStatus() models.SyncStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status.Clone()
}

func (e *syncEngine) Subscribe(listener StatusListener) func() {
	return e.publisher.Subscribe(listener)
}

func (e *syncEngine) OnAbandon(listener AbandonListener) func() {
	return e.abandonListeners.add(listener)
}

func (e *syncEngine) Abandoned(ctx context.Context, limit int) ([]models.AbandonedAction, error) {
	if e.deadLetters == nil {
		return nil, nil
	}
	return e.deadLetters.ListAbandoned(ctx, limit)
}

// onQueueChange re-reads the queue length instead of trusting pending:
// notifications of concurrent mutations may arrive out of order.
func (e *syncEngine) onQueueChange(int) {
	e.updateStatus(func(s *models.SyncStatus) { s.PendingCount = e.queue.Len() })
}

// updateStatus applies fn under the status lock and publishes the result
// outside of it, so listeners may call back into the engine.
func (e *syncEngine) updateStatus(fn func(s *models.SyncStatus)) {
	e.statusMu.Lock()
	fn(&e.status)
	snapshot := e.status.Clone()
	e.statusMu.Unlock()

	e.publisher.Publish(snapshot)
}
