package repository

import (
	"context"

	"clegacy/internal/model"
	"clegacy/internal/storage"
)

// AccessLogRepository is the append-only audit trail.
type AccessLogRepository interface {
	// Append assigns id = current length + 1 and persists the entry.
	Append(ctx context.Context, entry *model.AccessLogEntry) error
	// List returns entries in insertion order.
	List(ctx context.Context) ([]model.AccessLogEntry, error)
	// Recent returns at most limit entries, most recent first.
	Recent(ctx context.Context, limit int) ([]model.AccessLogEntry, error)
}

type accessLogRepository struct {
	entries collection[model.AccessLogEntry]
}

// NewAccessLogRepository builds a store-backed access log.
func NewAccessLogRepository(store storage.Store) AccessLogRepository {
	return &accessLogRepository{entries: newCollection[model.AccessLogEntry](store, AccessLogKey)}
}

func (r *accessLogRepository) Append(ctx context.Context, entry *model.AccessLogEntry) error {
	r.entries.mu.Lock()
	defer r.entries.mu.Unlock()

	entries, _, err := r.entries.load(ctx)
	if err != nil {
		return err
	}
	entry.ID = len(entries) + 1
	return r.entries.save(ctx, append(entries, *entry))
}

func (r *accessLogRepository) List(ctx context.Context) ([]model.AccessLogEntry, error) {
	entries, _, err := r.entries.load(ctx)
	return entries, err
}

func (r *accessLogRepository) Recent(ctx context.Context, limit int) ([]model.AccessLogEntry, error) {
	entries, _, err := r.entries.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}
	out := make([]model.AccessLogEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
