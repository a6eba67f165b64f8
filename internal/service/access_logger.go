package service

import (
	"context"
	"time"

	"clegacy/internal/logging"
	"clegacy/internal/model"
	"clegacy/internal/repository"
)

// AccessLogger appends audit records attributed to a session.
type AccessLogger interface {
	// Record appends one entry for session.
	Record(ctx context.Context, session model.Session, action string) error
	// RecordCurrent appends one entry for the session of ctx. Without a
	// session it does nothing.
	RecordCurrent(ctx context.Context, action string) error
	List(ctx context.Context) ([]model.AccessLogEntry, error)
	Recent(ctx context.Context, limit int) ([]model.AccessLogEntry, error)
}

type accessLogger struct {
	repo     repository.AccessLogRepository
	sessions repository.SessionRepository
	clock    repository.Clock
}

// NewAccessLogger builds an AccessLogger.
func NewAccessLogger(repo repository.AccessLogRepository, sessions repository.SessionRepository, clock repository.Clock) AccessLogger {
	if clock == nil {
		clock = time.Now
	}
	return &accessLogger{repo: repo, sessions: sessions, clock: clock}
}

func (l *accessLogger) Record(ctx context.Context, session model.Session, action string) error {
	entry := &model.AccessLogEntry{
		UserID:     session.UserID,
		UserName:   session.UserName,
		Role:       session.Role,
		Timestamp:  l.clock().UTC().Format(time.RFC3339),
		ClientInfo: model.ClientInfoFrom(ctx),
		Action:     action,
	}
	return l.repo.Append(ctx, entry)
}

func (l *accessLogger) RecordCurrent(ctx context.Context, action string) error {
	session, err := l.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return l.Record(ctx, *session, action)
}

func (l *accessLogger) List(ctx context.Context) ([]model.AccessLogEntry, error) {
	return l.repo.List(ctx)
}

func (l *accessLogger) Recent(ctx context.Context, limit int) ([]model.AccessLogEntry, error) {
	return l.repo.Recent(ctx, limit)
}

// audit records action for the current session after a committed mutation.
// The mutation already happened, so a failure is logged, not returned.
func audit(ctx context.Context, logger AccessLogger, action string) {
	if logger == nil {
		return
	}
	if err := logger.RecordCurrent(ctx, action); err != nil {
		logging.FromContext(ctx).Warn("access log append failed", "action", action, "error", err)
	}
}
