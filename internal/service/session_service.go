package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clegacy/internal/auth"
	apperrors "clegacy/internal/errors"
	"clegacy/internal/logging"
	"clegacy/internal/model"
	"clegacy/internal/repository"
)

// LandingPage returns the page a role is sent to after login or when it
// opens a page reserved to another role.
func LandingPage(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "/admin"
	case model.RoleVolunteer:
		return "/volunteer"
	default:
		return "/"
	}
}

// LoginPage is where anonymous visitors are sent by RequireRole.
const LoginPage = "/login"

// SessionService manages the session of a browsing context. Its role checks
// are page guards; the HTTP API enforces roles from token claims.
type SessionService interface {
	// Login returns ErrInvalidCredentials for an unknown email, a wrong
	// password and an inactive user alike.
	Login(ctx context.Context, email, password string) (*model.Session, error)
	// Logout is a no-op without a session.
	Logout(ctx context.Context) error
	// Current returns nil when anonymous.
	Current(ctx context.Context) (*model.Session, error)
	IsAuthenticated(ctx context.Context) (bool, error)
	HasRole(ctx context.Context, role model.Role) (bool, error)
	// RequireRole returns the session when its role matches, otherwise a
	// *apperrors.RedirectError naming where to send the visitor.
	RequireRole(ctx context.Context, role model.Role) (*model.Session, error)
}

type sessionService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   AccessLogger
	hasher   *auth.PasswordHasher
	clock    repository.Clock

	dummyOnce sync.Once
	dummyHash string
}

// NewSessionService builds a SessionService.
func NewSessionService(users repository.UserRepository, sessions repository.SessionRepository, logger AccessLogger, hasher *auth.PasswordHasher, clock repository.Clock) SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &sessionService{users: users, sessions: sessions, logger: logger, hasher: hasher, clock: clock}
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var (
		matched *model.User
		rehash  bool
		tried   bool
	)
	for i := range users {
		u := &users[i]
		if !u.Active || u.Email != email {
			continue
		}
		tried = true
		if ok, legacy := s.hasher.Verify(u.Password, password); ok {
			matched, rehash = u, legacy
			break
		}
	}
	if !tried {
		// keep the response time of an unknown email close to a wrong password
		s.hasher.Verify(s.dummy(), password)
	}
	if matched == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.clock().UTC()
	patch := map[string]any{"lastAccess": now.Format(time.RFC3339)}
	if rehash {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		patch["password"] = hashed
	}
	updated, err := s.users.Update(ctx, matched.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update last access: %w", err)
	}

	session := model.NewSession(*updated, now.Format(time.RFC3339))
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.logger.Record(ctx, session, model.ActionLogin); err != nil {
		logging.FromContext(ctx).Warn("access log append failed", "action", model.ActionLogin, "error", err)
	}
	return &session, nil
}

func (s *sessionService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("clegacy-dummy-password")
	})
	return s.dummyHash
}

func (s *sessionService) Logout(ctx context.Context) error {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	if err := s.logger.Record(ctx, *session, model.ActionLogout); err != nil {
		logging.FromContext(ctx).Warn("access log append failed", "action", model.ActionLogout, "error", err)
	}
	return s.sessions.Clear(ctx)
}

func (s *sessionService) Current(ctx context.Context) (*model.Session, error) {
	return s.sessions.Get(ctx)
}

func (s *sessionService) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := s.sessions.Get(ctx)
	return session != nil, err
}

func (s *sessionService) HasRole(ctx context.Context, role model.Role) (bool, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil || session == nil {
		return false, err
	}
	return session.Role == role, nil
}

func (s *sessionService) RequireRole(ctx context.Context, role model.Role) (*model.Session, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NewRedirectError(LoginPage, apperrors.ErrNotAuthenticated)
	}
	if session.Role != role {
		return nil, apperrors.NewRedirectError(LandingPage(session.Role), apperrors.ErrForbidden)
	}
	return session, nil
}
