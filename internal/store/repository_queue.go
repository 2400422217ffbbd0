// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
)

const (
	defaultWriteRetries    = 3
	defaultWriteRetryDelay = 25 * time.Millisecond
)

// SQLiteQueueStorage keeps the serialized queue in a key-value row and the
// abandoned actions in their own table. It implements both [QueueStorage]
// and [DeadLetterStorage].
type SQLiteQueueStorage struct {
	*DB
	logger *logger.Logger

	writeRetries    uint64
	writeRetryDelay time.Duration
}

// NewSQLiteQueueStorage wraps an open, migrated database.
func NewSQLiteQueueStorage(db *DB, logger *logger.Logger) *SQLiteQueueStorage {
	return &SQLiteQueueStorage{
		DB:              db,
		logger:          logger,
		writeRetries:    defaultWriteRetries,
		writeRetryDelay: defaultWriteRetryDelay,
	}
}

func (s *SQLiteQueueStorage) ReadQueue(ctx context.Context) ([]byte, error) {
	query, args, err := buildReadQueueQuery(queueKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteQueueStorage.ReadQueue").
			Msg("failed to read persisted queue")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

// WriteQueue upserts the queue document. Writes rejected because the
// database is busy or locked are repeated a few times before giving up.
func (s *SQLiteQueueStorage) WriteQueue(ctx context.Context, data []byte) error {
	query, args, err := buildWriteQueueQuery(queueKey, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = s.execWithRetry(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteQueueStorage.WriteQueue").
			Int("bytes", len(data)).
			Msg("failed to persist queue")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *SQLiteQueueStorage) AppendAbandoned(ctx context.Context, record models.AbandonedAction) error {
	action, err := json.Marshal(record.Action)
	if err != nil {
		return fmt.Errorf("encode abandoned action %s: %w", record.Action.ID, err)
	}

	query, args, err := buildInsertAbandonedQuery(record, action)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = s.execWithRetry(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteQueueStorage.AppendAbandoned").
			Str("action_id", record.Action.ID).
			Msg("failed to save abandoned action")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *SQLiteQueueStorage) ListAbandoned(ctx context.Context, limit int) ([]models.AbandonedAction, error) {
	query, args, err := buildListAbandonedQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).
			Str("func", "SQLiteQueueStorage.ListAbandoned").
			Msg("failed to query abandoned actions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.AbandonedAction, 0)
	for rows.Next() {
		var (
			record  models.AbandonedAction
			failure string
			action  []byte
		)
		if err = rows.Scan(&failure, &record.Reason, &action, &record.AbandonedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err = json.Unmarshal(action, &record.Action); err != nil {
			s.logger.Warn().Err(err).
				Str("func", "SQLiteQueueStorage.ListAbandoned").
				Msg("skipping undecodable abandoned action")
			continue
		}
		record.Failure = models.FailureClass(failure)
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (s *SQLiteQueueStorage) execWithRetry(ctx context.Context, query string, args ...any) error {
	backoff := retry.WithMaxRetries(s.writeRetries, retry.NewConstant(s.writeRetryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.DB.ExecContext(ctx, query, args...)
		if err != nil && s.errorClassificator != nil && s.errorClassificator.Classify(err) == Retryable {
			return retry.RetryableError(err)
		}
		return err
	})
}
