package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"clegacy/internal/auth"
	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/ratelimit"
	"clegacy/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions service.SessionService
	jwt      *auth.JWTService
	tokens   auth.TokenStoreInterface
	attempts *ratelimit.Attempts
	now      func() time.Time
}

// NewAuthHandler creates a new auth handler. attempts may be nil.
func NewAuthHandler(sessions service.SessionService, jwt *auth.JWTService, tokens auth.TokenStoreInterface, attempts *ratelimit.Attempts) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwt: jwt, tokens: tokens, attempts: attempts, now: time.Now}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the session.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	Session      *model.Session `json:"session"`
	Redirect     string         `json:"redirect"`
}

// SessionResponse describes the session of the calling browsing context.
type SessionResponse struct {
	Session  *model.Session `json:"session"`
	Redirect string         `json:"redirect"`
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	client := c.RealIP()
	verdict, err := h.attempts.Hit(ctx, client)
	if err != nil {
		slog.WarnContext(ctx, "login throttle unavailable", "error", err)
	}
	if !verdict.Allowed {
		if verdict.RetryAfter > 0 {
			c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(verdict.RetryAfter.Seconds()))))
		}
		return respondError(c, apperrors.ErrTooManyAttempts)
	}

	sessionID := auth.NewTokenID()
	ctx = model.WithSessionSlot(ctx, sessionID)
	session, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.attempts.Reset(ctx, client); err != nil {
		slog.WarnContext(ctx, "login throttle reset failed", "error", err)
	}

	c.SetRequest(c.Request().WithContext(ctx))
	resp, err := h.issue(c, sessionID, *session)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	claims, err := h.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return respondError(c, apperrors.ErrInvalidRefreshToken)
	}
	ctx := c.Request().Context()
	if _, err := h.tokens.GetRefreshToken(ctx, claims.ID); err != nil {
		return respondError(c, apperrors.ErrInvalidRefreshToken)
	}
	// Rotate: a refresh token is good for one use.
	if err := h.tokens.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return respondError(c, err)
	}

	ctx = model.WithSessionSlot(ctx, claims.Slot())
	session, err := h.sessions.Current(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if session == nil {
		return respondError(c, apperrors.ErrInvalidRefreshToken)
	}

	c.SetRequest(c.Request().WithContext(ctx))
	resp, err := h.issue(c, claims.Slot(), *session)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "Refresh token to revoke"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return respondError(c, apperrors.ErrNotAuthenticated)
	}
	var req LogoutRequest
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	if err := h.tokens.BlacklistAccessToken(ctx, claims.ID, remaining(claims, h.now())); err != nil {
		return respondError(c, err)
	}
	if req.RefreshToken != "" {
		if refresh, err := h.jwt.ValidateRefreshToken(req.RefreshToken); err == nil && refresh.Slot() == claims.Slot() {
			_ = h.tokens.DeleteRefreshToken(ctx, refresh.ID)
		}
	}
	if err := h.sessions.Logout(ctx); err != nil {
		return respondError(c, err)
	}

	c.SetCookie(&http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Session godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := h.sessions.Current(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if session == nil {
		return respondError(c, apperrors.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, SessionResponse{Session: session, Redirect: service.LandingPage(session.Role)})
}

func (h *AuthHandler) issue(c echo.Context, sessionID string, session model.Session) (*AuthResponse, error) {
	ctx := c.Request().Context()
	access, err := h.jwt.GenerateAccessToken(auth.NewTokenID(), sessionID, session)
	if err != nil {
		return nil, err
	}
	refreshID, refresh, err := h.jwt.GenerateRefreshToken(sessionID, session)
	if err != nil {
		return nil, err
	}
	if err := h.tokens.StoreRefreshToken(ctx, refreshID, session, auth.RefreshTokenExpiry); err != nil {
		return nil, err
	}

	c.SetCookie(&http.Cookie{
		Name:     TokenCookie,
		Value:    access,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Session:      &session,
		Redirect:     service.LandingPage(session.Role),
	}, nil
}
