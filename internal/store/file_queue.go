package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
)

// FileQueueStorage keeps the queue as a JSON document replaced atomically on
// every write, and abandoned actions as a JSON-lines log.
type FileQueueStorage struct {
	queuePath      string
	deadLetterPath string
	logger         *logger.Logger

	mu sync.Mutex
}

// NewFileQueueStorage creates the parent directories of both paths.
func NewFileQueueStorage(queuePath, deadLetterPath string, logger *logger.Logger) (*FileQueueStorage, error) {
	for _, p := range []string{queuePath, deadLetterPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir for %s: %w", p, err)
		}
	}

	return &FileQueueStorage{
		queuePath:      queuePath,
		deadLetterPath: deadLetterPath,
		logger:         logger,
	}, nil
}

func (f *FileQueueStorage) ReadQueue(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.queuePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}

	return data, nil
}

// WriteQueue writes data to a temporary file in the same directory, syncs it
// and renames it over the queue file, so a crash leaves either the old or the
// new document on disk.
func (f *FileQueueStorage) WriteQueue(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := writeFileAtomic(f.queuePath, data); err != nil {
		f.logger.Err(err).
			Str("func", "FileQueueStorage.WriteQueue").
			Str("path", f.queuePath).
			Msg("failed to persist queue")
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	return nil
}

func (f *FileQueueStorage) AppendAbandoned(ctx context.Context, record models.AbandonedAction) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode abandoned action %s: %w", record.Action.ID, err)
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.deadLetterPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	if _, err = file.Write(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	if err = file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	return file.Close()
}

func (f *FileQueueStorage) ListAbandoned(ctx context.Context, limit int) ([]models.AbandonedAction, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.deadLetterPath)
	f.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return []models.AbandonedAction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}

	var all []models.AbandonedAction
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record models.AbandonedAction
		if err = json.Unmarshal(line, &record); err != nil {
			f.logger.Warn().Err(err).
				Str("func", "FileQueueStorage.ListAbandoned").
				Msg("skipping undecodable abandoned action")
			continue
		}
		all = append(all, record)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}

	records := make([]models.AbandonedAction, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(records) == limit {
			break
		}
		records = append(records, all[i])
	}

	return records, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}
