// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/mock"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type engineFixture struct {
	engine      *syncEngine
	queue       *actionQueue
	storage     *memQueueStorage
	monitor     *connectivityMonitor
	api         *mock.MockNotesAPI
	deadLetters *memDeadLetters
}

func newEngineFixture(t *testing.T, ctrl *gomock.Controller) *engineFixture {
	t.Helper()

	storage := &memQueueStorage{}
	queue := newTestQueue(t, storage)
	monitor := onlineMonitor()
	api := mock.NewMockNotesAPI(ctrl)
	deadLetters := &memDeadLetters{}

	engine := NewSyncEngine(queue, api, monitor, NewStatusPublisher(logger.Nop()), deadLetters, logger.Nop()).(*syncEngine)

	return &engineFixture{
		engine:      engine,
		queue:       queue,
		storage:     storage,
		monitor:     monitor,
		api:         api,
		deadLetters: deadLetters,
	}
}

func (f *engineFixture) enqueue(t *testing.T, payload models.ActionPayload) string {
	t.Helper()
	id, err := f.engine.Enqueue(context.Background(), payload)
	require.NoError(t, err)
	return id
}

func serverError() error {
	return fmt.Errorf("delete note: %w", adapter.NewStatusError(503, "maintenance"))
}

// ── Dispatch outcomes ───────────────────────────────────────────────────────

func TestSyncEngine_SuccessRemovesExactlyThatAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	failing := f.enqueue(t, models.DeleteNotePayload{NoteID: 2})

	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 1}).Return(nil)
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 2}).Return(serverError())

	report, err := f.engine.TriggerSync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Retried)

	remaining := f.queue.Snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, failing, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].Attempts)

	status := f.engine.GetStatus()
	assert.Equal(t, 1, status.PendingCount)
	assert.False(t, status.IsSyncing)
	assert.NotNil(t, status.LastSyncAt)
}

func TestSyncEngine_OfflinePassMakesNoCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	id := f.enqueue(t, models.ShareNotePublicPayload{NoteID: 1})
	f.monitor.Update(offlineState())

	// no EXPECT: any API call fails the test
	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.False(t, report.Outcomes[0].Dispatched)
	assert.Equal(t, models.ResultRetry, report.Outcomes[0].Result)

	remaining := f.queue.Snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, id, remaining[0].ID)
	assert.Zero(t, remaining[0].Attempts)
}

func TestSyncEngine_TransientAbandonedAfterMaxAttemptsPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	ctx := context.Background()
	id := f.enqueue(t, models.DeleteNotePayload{NoteID: 5})

	f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).Return(serverError()).Times(models.DefaultMaxAttempts)

	var events []models.AbandonedAction
	f.engine.OnAbandon(func(r models.AbandonedAction) { events = append(events, r) })

	for pass := 1; pass < models.DefaultMaxAttempts; pass++ {
		report, err := f.engine.TriggerSync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Retried, "pass %d", pass)
		assert.Empty(t, events, "pass %d", pass)
		assert.Equal(t, pass, f.queue.Snapshot()[0].Attempts)
	}

	report, err := f.engine.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Abandoned)
	assert.Zero(t, f.queue.Len())

	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].Action.ID)
	assert.Equal(t, models.DefaultMaxAttempts, events[0].Action.Attempts)
	assert.Equal(t, models.FailureTransient, events[0].Failure)

	// nothing left to dispatch
	_, err = f.engine.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	status := f.engine.GetStatus()
	assert.Equal(t, 1, status.AbandonedCount)
	require.NotNil(t, status.LastAbandoned)
	assert.Equal(t, id, status.LastAbandoned.Action.ID)

	records, err := f.engine.Abandoned(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].Action.ID)
}

func TestSyncEngine_NotFoundAbandonsAfterOneAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.UpdateNotePayload{NoteID: 9, NoteFields: models.NoteFields{Title: "Gone"}})

	f.api.EXPECT().UpdateNote(gomock.Any(), gomock.Any()).
		Return(models.Note{}, fmt.Errorf("update note: %w", adapter.NewStatusError(404, "note not found")))

	var events []models.AbandonedAction
	f.engine.OnAbandon(func(r models.AbandonedAction) { events = append(events, r) })

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Abandoned)
	assert.Equal(t, models.FailurePermanent, report.Outcomes[0].Failure)
	assert.Zero(t, f.queue.Len())

	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Action.Attempts)
	assert.Contains(t, events[0].Reason, "note not found")
	assert.Len(t, f.deadLetters.records, 1)
}

func TestSyncEngine_DispatchOrderEqualsAppendOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)

	f.enqueue(t, models.CreateNotePayload{NoteFields: models.NoteFields{Title: "First"}})
	f.enqueue(t, models.UpdateNotePayload{NoteID: 1, NoteFields: models.NoteFields{Title: "Second"}})
	f.enqueue(t, models.ShareNoteWithUserPayload{NoteID: 1, Email: "bob@example.com"})
	f.enqueue(t, models.ShareNotePublicPayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})

	gomock.InOrder(
		f.api.EXPECT().CreateNote(gomock.Any(), gomock.Any()).Return(models.Note{ID: 1}, nil),
		f.api.EXPECT().UpdateNote(gomock.Any(), gomock.Any()).Return(models.Note{ID: 1}, nil),
		f.api.EXPECT().ShareWithUser(gomock.Any(), gomock.Any()).Return(models.Share{}, nil),
		f.api.EXPECT().SharePublic(gomock.Any(), gomock.Any()).Return(models.PublicLink{}, nil),
		f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).Return(nil),
	)

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Succeeded)
	assert.Zero(t, f.queue.Len())
}

func TestSyncEngine_FailuresDoNotAbortThePass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)

	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 3})

	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 1}).
		Return(adapter.NewStatusError(403, "forbidden"))
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 2}).
		Return(fmt.Errorf("delete: %w: connection refused", adapter.ErrTransport))
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 3}).Return(nil)

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Abandoned)
	assert.Equal(t, 1, report.Retried)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, f.queue.Len())
}

func TestSyncEngine_PanickingDispatchIsContained(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})

	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 1}).
		DoAndReturn(func(context.Context, models.DeleteNotePayload) error { panic("nil map") })
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 2}).Return(nil)

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Retried)
	assert.Equal(t, 1, report.Succeeded)
	assert.Contains(t, f.engine.GetStatus().LastError, "dispatch panicked")

	// next pass clears the error when it starts
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 1}).Return(nil)
	_, err = f.engine.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.engine.GetStatus().LastError)
}

func TestSyncEngine_UnknownPayloadIsAbandoned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	// cannot be persisted, so it is placed in memory directly
	f.queue.mu.Lock()
	f.queue.actions = []models.QueuedAction{{ID: "broken", Kind: "ARCHIVE_NOTE", MaxAttempts: 3}}
	f.queue.mu.Unlock()

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Abandoned)
	assert.Equal(t, models.FailurePermanent, report.Outcomes[0].Failure)
}

// ── Persistence failures ────────────────────────────────────────────────────

func TestSyncEngine_CommitFailureKeepsSnapshotAndRecordsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	id := f.enqueue(t, models.DeleteNotePayload{NoteID: 1})

	var events int
	f.engine.OnAbandon(func(models.AbandonedAction) { events++ })

	f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).Return(adapter.NewStatusError(404, ""))
	f.storage.failWrites(errors.New("disk full"))

	report, err := f.engine.TriggerSync(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistQueue)
	assert.NotEmpty(t, report.Err)
	assert.Zero(t, report.Abandoned)

	assert.Equal(t, []string{id}, actionIDs(f.queue.Snapshot()))
	assert.Zero(t, events)
	assert.Empty(t, f.deadLetters.records)

	status := f.engine.GetStatus()
	assert.Contains(t, status.LastError, "persisting action queue")
	assert.False(t, status.IsSyncing)
	assert.Nil(t, status.LastSyncAt)
}

// ── Concurrency ─────────────────────────────────────────────────────────────

func TestSyncEngine_NoConcurrentPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})

	entered := make(chan struct{})
	release := make(chan struct{})
	f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.DeleteNotePayload) error {
		close(entered)
		<-release
		return nil
	}).Times(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.engine.TriggerSync(context.Background())
		assert.NoError(t, err)
	}()

	<-entered
	assert.True(t, f.engine.GetStatus().IsSyncing)

	_, err := f.engine.TriggerSync(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	wg.Wait()
	assert.False(t, f.engine.GetStatus().IsSyncing)
}

func TestSyncEngine_AppendDuringPassSurvivesCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	ctx := context.Background()
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})

	var lateID string
	f.api.EXPECT().DeleteNote(gomock.Any(), models.DeleteNotePayload{NoteID: 1}).
		DoAndReturn(func(context.Context, models.DeleteNotePayload) error {
			lateID = f.enqueue(t, models.DeleteNotePayload{NoteID: 2})
			return nil
		})

	report, err := f.engine.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Outcomes, 1)

	assert.Equal(t, []string{lateID}, actionIDs(f.queue.Snapshot()))
	assert.Equal(t, 1, f.engine.GetStatus().PendingCount)

	reloaded := newTestQueue(t, f.storage)
	reloaded.Load(ctx)
	assert.Equal(t, []string{lateID}, actionIDs(reloaded.Snapshot()))
}

func TestSyncEngine_PassIgnoresCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ models.DeleteNotePayload) error {
		return ctx.Err()
	})

	report, err := f.engine.TriggerSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
}

// ── Status ──────────────────────────────────────────────────────────────────

func TestSyncEngine_StatusTransitionsArePublished(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})

	var seen []models.SyncStatus
	unsubscribe := f.engine.Subscribe(func(s models.SyncStatus) { seen = append(seen, s) })
	defer unsubscribe()

	f.api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	first := seen[0]
	assert.True(t, first.IsSyncing)
	assert.Equal(t, 2, first.InFlight)
	assert.Equal(t, 2, first.PendingCount)

	last := seen[len(seen)-1]
	assert.False(t, last.IsSyncing)
	assert.Zero(t, last.PendingCount)
	assert.NotNil(t, last.LastSyncAt)

	var maxProcessed int
	for _, s := range seen {
		if s.Processed > maxProcessed {
			maxProcessed = s.Processed
		}
	}
	assert.Equal(t, 2, maxProcessed)
}

func TestSyncEngine_PendingCountFollowsQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	ctx := context.Background()

	id := f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})
	assert.Equal(t, 2, f.engine.GetStatus().PendingCount)

	require.NoError(t, f.queue.Remove(ctx, id))
	assert.Equal(t, 1, f.engine.GetStatus().PendingCount)

	require.NoError(t, f.queue.Clear(ctx))
	assert.Zero(t, f.engine.GetStatus().PendingCount)
}

func TestSyncEngine_LateQueueNotificationKeepsPendingCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})

	// the first append's notification arrives after the second one
	f.engine.onQueueChange(1)

	assert.Equal(t, 2, f.queue.Len())
	assert.Equal(t, 2, f.engine.GetStatus().PendingCount)
}

func TestSyncEngine_ConcurrentAppendsSettlePendingCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Enqueue(context.Background(), models.DeleteNotePayload{NoteID: int64(i + 1)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, f.engine.GetStatus().PendingCount)
}

func TestSyncEngine_RestartRebuildsStatusFromQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.enqueue(t, models.DeleteNotePayload{NoteID: 1})
	f.enqueue(t, models.DeleteNotePayload{NoteID: 2})

	queue := newTestQueue(t, f.storage)
	engine := NewSyncEngine(queue, mock.NewMockNotesAPI(ctrl), onlineMonitor(), NewStatusPublisher(logger.Nop()), nil, logger.Nop())
	queue.Load(context.Background())

	status := engine.GetStatus()
	assert.Equal(t, 2, status.PendingCount)
	assert.False(t, status.IsSyncing)
	assert.Nil(t, status.LastSyncAt)
}

func TestSyncEngine_EmptyQueuePass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)
	f.engine.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	report, err := f.engine.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Outcomes)
	assert.Zero(t, f.storage.writeCount())
	require.NotNil(t, f.engine.GetStatus().LastSyncAt)
	assert.Equal(t, 2026, f.engine.GetStatus().LastSyncAt.Year())
}

// ── Enqueue ─────────────────────────────────────────────────────────────────

func TestSyncEngine_EnqueueRejectsInvalidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newEngineFixture(t, ctrl)

	_, err := f.engine.Enqueue(context.Background(), models.CreateNotePayload{NoteFields: models.NoteFields{Title: "x"}})
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = f.engine.Enqueue(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	assert.Zero(t, f.queue.Len())
}

func TestSyncEngine_AbandonedWithoutDeadLetterStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := newTestQueue(t, &memQueueStorage{})
	engine := NewSyncEngine(queue, mock.NewMockNotesAPI(ctrl), onlineMonitor(), NewStatusPublisher(logger.Nop()), nil, logger.Nop())

	records, err := engine.Abandoned(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSyncEngine_DeadLetterStoreFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deadLetters := mock.NewMockDeadLetterStorage(ctrl)
	queue := newTestQueue(t, &memQueueStorage{})
	api := mock.NewMockNotesAPI(ctrl)
	engine := NewSyncEngine(queue, api, onlineMonitor(), NewStatusPublisher(logger.Nop()), deadLetters, logger.Nop())

	_, err := engine.Enqueue(context.Background(), models.DeleteNotePayload{NoteID: 1})
	require.NoError(t, err)

	api.EXPECT().DeleteNote(gomock.Any(), gomock.Any()).Return(adapter.NewStatusError(400, "bad"))
	deadLetters.EXPECT().AppendAbandoned(gomock.Any(), gomock.Any()).Return(errors.New("read-only"))

	var events int
	engine.OnAbandon(func(models.AbandonedAction) { events++ })

	report, err := engine.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Abandoned)
	assert.Equal(t, 1, events)
}
