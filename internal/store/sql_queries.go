package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-notes-sync/models"
)

const (
	kvTable        = "kv_store"
	abandonedTable = "abandoned_actions"

	// queueKey is the kv_store key holding the serialized action queue.
	queueKey = "offline_queue"
)

var abandonedColumns = []string{"action_id", "kind", "attempts", "failure", "reason", "action", "abandoned_at"}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildReadQueueQuery(key string) (string, []any, error) {
	return builder.
		Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildWriteQueueQuery(key string, value []byte, at time.Time) (string, []any, error) {
	return builder.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, at).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

func buildInsertAbandonedQuery(record models.AbandonedAction, action []byte) (string, []any, error) {
	return builder.
		Insert(abandonedTable).
		Columns(abandonedColumns...).
		Values(
			record.Action.ID,
			string(record.Action.Kind),
			record.Action.Attempts,
			string(record.Failure),
			record.Reason,
			action,
			record.AbandonedAt,
		).
		ToSql()
}

func buildListAbandonedQuery(limit int) (string, []any, error) {
	q := builder.
		Select("failure", "reason", "action", "abandoned_at").
		From(abandonedTable).
		OrderBy("id DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return q.ToSql()
}
