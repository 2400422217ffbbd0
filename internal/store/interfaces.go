package store

import (
	"context"

	"github.com/MKhiriev/go-notes-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueStorage persists the serialized action queue as a single opaque
// document.
type QueueStorage interface {
	// ReadQueue returns the last written document, or nil when nothing has
	// been written yet.
	ReadQueue(ctx context.Context) ([]byte, error)
	// WriteQueue durably replaces the stored document.
	WriteQueue(ctx context.Context, data []byte) error
}

// DeadLetterStorage keeps a durable record of abandoned actions.
type DeadLetterStorage interface {
	AppendAbandoned(ctx context.Context, record models.AbandonedAction) error
	// ListAbandoned returns up to limit records, most recent first. A
	// non-positive limit returns all records.
	ListAbandoned(ctx context.Context, limit int) ([]models.AbandonedAction, error)
}

// ErrorClassificator decides whether a failed storage operation is worth
// repeating.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
