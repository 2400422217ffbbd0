// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/store"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
)

type actionQueue struct {
	storage     store.QueueStorage
	ids         *utils.ActionIDGenerator
	now         func() time.Time
	maxAttempts int

	// mu serialises mutations including their storage write.
	mu      sync.Mutex
	actions []models.QueuedAction

	hookMu   sync.RWMutex
	onChange func(pending int)

	logger *logger.Logger
}

// NewActionQueue creates an empty queue backed by storage. Call Load to
// restore the persisted state. maxAttempts applies to newly appended actions;
// a non-positive value selects [models.DefaultMaxAttempts].
func NewActionQueue(storage store.QueueStorage, maxAttempts int, log *logger.Logger) ActionQueue {
	if maxAttempts <= 0 {
		maxAttempts = models.DefaultMaxAttempts
	}

	return &actionQueue{
		storage:     storage,
		ids:         utils.NewActionIDGenerator(),
		now:         time.Now,
		maxAttempts: maxAttempts,
		logger:      log,
	}
}

func (q *actionQueue) Load(ctx context.Context) {
	log := q.logger.With().Str("func", "actionQueue.Load").Logger()

	loaded := q.read(ctx)

	q.mu.Lock()
	q.actions = loaded
	n := len(q.actions)
	q.mu.Unlock()

	log.Info().Int("pending", n).Msg("action queue loaded")
	q.changed(n)
}

func (q *actionQueue) read(ctx context.Context) []models.QueuedAction {
	log := q.logger.With().Str("func", "actionQueue.read").Logger()

	data, err := q.storage.ReadQueue(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not read persisted queue, starting empty")
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var actions []models.QueuedAction
	if err = json.Unmarshal(data, &actions); err != nil {
		log.Warn().Err(err).Int("bytes", len(data)).Msg("persisted queue is corrupt, starting empty")
		return nil
	}

	for i := range actions {
		if actions[i].MaxAttempts <= 0 {
			actions[i].MaxAttempts = q.maxAttempts
		}
	}
	return actions
}

func (q *actionQueue) Append(ctx context.Context, payload models.ActionPayload) (string, error) {
	if payload == nil {
		return "", ErrEmptyPayload
	}

	action := models.QueuedAction{
		ID:          q.ids.Generate(string(payload.Kind())),
		Kind:        payload.Kind(),
		Payload:     payload,
		EnqueuedAt:  q.now().UTC(),
		MaxAttempts: q.maxAttempts,
	}
	action = action.Clone()

	n, err := q.mutate(ctx, func(current []models.QueuedAction) ([]models.QueuedAction, bool) {
		next := make([]models.QueuedAction, 0, len(current)+1)
		next = append(next, current...)
		return append(next, action), true
	})
	if err != nil {
		return "", fmt.Errorf("append %s: %w", action.Kind, err)
	}

	q.logger.Debug().
		Str("func", "actionQueue.Append").
		Str("action_id", action.ID).
		Str("kind", string(action.Kind)).
		Int("pending", n).
		Msg("action queued")

	return action.ID, nil
}

func (q *actionQueue) Snapshot() []models.QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()

	return cloneActions(q.actions)
}

func (q *actionQueue) Remove(ctx context.Context, id string) error {
	_, err := q.mutate(ctx, func(current []models.QueuedAction) ([]models.QueuedAction, bool) {
		next := make([]models.QueuedAction, 0, len(current))
		for _, a := range current {
			if a.ID != id {
				next = append(next, a)
			}
		}
		return next, len(next) != len(current)
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

func (q *actionQueue) ReplaceAll(ctx context.Context, actions []models.QueuedAction) error {
	replacement := cloneActions(actions)

	_, err := q.mutate(ctx, func([]models.QueuedAction) ([]models.QueuedAction, bool) {
		return replacement, true
	})
	if err != nil {
		return fmt.Errorf("replace queue: %w", err)
	}
	return nil
}

func (q *actionQueue) CommitPass(ctx context.Context, snapshot, retained []models.QueuedAction) error {
	inSnapshot := make(map[string]struct{}, len(snapshot))
	for _, a := range snapshot {
		inSnapshot[a.ID] = struct{}{}
	}
	keep := make(map[string]models.QueuedAction, len(retained))
	for _, a := range retained {
		keep[a.ID] = a.Clone()
	}

	_, err := q.mutate(ctx, func(current []models.QueuedAction) ([]models.QueuedAction, bool) {
		next := make([]models.QueuedAction, 0, len(current))
		for _, a := range current {
			if _, drained := inSnapshot[a.ID]; !drained {
				next = append(next, a)
				continue
			}
			// removed while the pass ran: stays removed
			if r, ok := keep[a.ID]; ok {
				next = append(next, r)
			}
		}
		return next, true
	})
	if err != nil {
		return fmt.Errorf("commit pass: %w", err)
	}
	return nil
}

func (q *actionQueue) Clear(ctx context.Context) error {
	_, err := q.mutate(ctx, func(current []models.QueuedAction) ([]models.QueuedAction, bool) {
		return nil, len(current) > 0
	})
	if err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

func (q *actionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

func (q *actionQueue) OnChange(fn func(pending int)) {
	q.hookMu.Lock()
	defer q.hookMu.Unlock()
	q.onChange = fn
}

// mutate computes the next queue from the current one, persists it, and only
// then swaps it in. build reports false when nothing changed, in which case
// no write happens.
func (q *actionQueue) mutate(
	ctx context.Context,
	build func(current []models.QueuedAction) ([]models.QueuedAction, bool),
) (int, error) {
	q.mu.Lock()

	next, changed := build(q.actions)
	if !changed {
		n := len(q.actions)
		q.mu.Unlock()
		return n, nil
	}

	if err := q.persist(ctx, next); err != nil {
		q.mu.Unlock()
		return 0, err
	}

	q.actions = next
	n := len(next)
	q.mu.Unlock()

	q.changed(n)
	return n, nil
}

func (q *actionQueue) persist(ctx context.Context, actions []models.QueuedAction) error {
	if actions == nil {
		actions = []models.QueuedAction{}
	}

	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeQueue, err)
	}
	if err = q.storage.WriteQueue(ctx, data); err != nil {
		q.logger.Error().Str("func", "actionQueue.persist").Err(err).Int("pending", len(actions)).Msg("queue write failed")
		return fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}
	return nil
}

func (q *actionQueue) changed(n int) {
	q.hookMu.RLock()
	fn := q.onChange
	q.hookMu.RUnlock()

	if fn != nil {
		fn(n)
	}
}

func cloneActions(in []models.QueuedAction) []models.QueuedAction {
	out := make([]models.QueuedAction, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
