package repository

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/storage"
)

// SessionRepository persists the zero-or-one session slot. A context carrying
// model.WithSessionSlot addresses its own slot under "session:<slot>".
type SessionRepository interface {
	// Get returns nil when no session is stored.
	Get(ctx context.Context) (*model.Session, error)
	Save(ctx context.Context, session model.Session) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	store storage.Store
}

// NewSessionRepository builds a store-backed session slot.
func NewSessionRepository(store storage.Store) SessionRepository {
	return &sessionRepository{store: store}
}

func sessionKey(ctx context.Context) string {
	if slot := model.SessionSlotFrom(ctx); slot != "" {
		return SessionKey + ":" + slot
	}
	return SessionKey
}

func (r *sessionRepository) Get(ctx context.Context) (*model.Session, error) {
	raw, ok, err := r.store.Get(ctx, sessionKey(ctx))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w %q: %v", apperrors.ErrCorruptCollection, sessionKey(ctx), err)
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, session model.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey(ctx), raw); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, sessionKey(ctx)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
