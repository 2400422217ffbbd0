package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
)

// ClientStorages groups the storages used by the sync client.
type ClientStorages struct {
	// Queue persists the pending action queue.
	Queue QueueStorage
	// DeadLetters records abandoned actions.
	DeadLetters DeadLetterStorage

	closer io.Closer
}

// NewClientStorages initialises the backend selected by cfg.Driver.
//
// For the sqlite driver it opens the database file from cfg.DB.DSN and runs
// pending migrations via [DB.Migrate]. For the file driver it prepares the
// directories of the queue and dead-letter files.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		repo := NewSQLiteQueueStorage(db, logger)
		return &ClientStorages{Queue: repo, DeadLetters: repo, closer: db}, nil

	case config.DriverFile:
		files, err := NewFileQueueStorage(cfg.Files.QueuePath, cfg.Files.DeadLetterPath, logger)
		if err != nil {
			return nil, err
		}
		return &ClientStorages{Queue: files, DeadLetters: files}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Close releases the database connection, if any.
func (s *ClientStorages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
