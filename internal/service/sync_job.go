// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/sethvargo/go-retry"
)

// Trigger reasons recorded in the pass context.
const (
	TriggerStartup   = "startup"
	TriggerInterval  = "interval"
	TriggerReconnect = "reconnect"
	TriggerManual    = "manual"
)

type syncJob struct {
	engine  SyncEngine
	monitor ConnectivityMonitor
	cfg     config.ClientWorkers

	triggers chan string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a job that runs engine passes every cfg.SyncInterval,
// whenever monitor reports that the device came back online, and when
// Trigger is called. While a pass leaves actions for retry, further passes
// follow with exponential backoff between cfg.BackoffBase and cfg.BackoffMax.
// The job is idle until Start is called.
func NewSyncJob(engine SyncEngine, monitor ConnectivityMonitor, cfg config.ClientWorkers, log *logger.Logger) SyncJob {
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = config.DefaultSyncInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = config.DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = config.DefaultBackoffBase
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}

	return &syncJob{
		engine:   engine,
		monitor:  monitor,
		cfg:      cfg,
		triggers: make(chan string, 1),
		logger:   log,
	}
}

// Start stops any previously running job, then launches the background
// goroutine. A first pass runs right away.
func (j *syncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	var wasOffline atomic.Bool
	wasOffline.Store(j.monitor.IsOffline())
	unsubscribe := j.monitor.Subscribe(func(state models.NetworkState) {
		offline := state.IsOffline()
		if wasOffline.Swap(offline) && !offline {
			j.Trigger(TriggerReconnect)
		}
	})

	go func() {
		defer j.wg.Done()
		defer unsubscribe()

		t := time.NewTicker(j.cfg.SyncInterval)
		defer t.Stop()

		j.run(jobCtx, TriggerStartup)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx, TriggerInterval)
			case reason := <-j.triggers:
				j.run(jobCtx, reason)
			}
		}
	}()
}

// Stop cancels the background goroutine and waits for it to exit. A pass
// already in flight is allowed to finish.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) Trigger(reason string) {
	select {
	case j.triggers <- reason:
	default:
	}
}

func (j *syncJob) run(ctx context.Context, reason string) {
	log := j.logger.With().Str("func", "syncJob.run").Str("trigger", reason).Logger()
	ctx = utils.WithSyncTrigger(ctx, reason)

	backoff := retry.NewExponential(j.cfg.BackoffBase)
	backoff = retry.WithCappedDuration(j.cfg.BackoffMax, backoff)
	backoff = retry.WithMaxRetries(uint64(j.cfg.MaxAttempts), backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if j.monitor.IsOffline() {
			log.Debug().Msg("offline, waiting for reconnect")
			return nil
		}

		report, err := j.engine.TriggerSync(ctx)
		if errors.Is(err, ErrSyncInProgress) {
			return nil
		}
		if err != nil {
			return retry.RetryableError(err)
		}
		if report.Retried > 0 {
			return retry.RetryableError(errRetriesLeft)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("sync retries exhausted until next trigger")
	}
}
