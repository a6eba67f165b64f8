package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"clegacy/internal/auth"
	apperrors "clegacy/internal/errors"
	"clegacy/internal/logging"
	"clegacy/internal/model"
)

// TokenCookie carries the access token for page requests.
const TokenCookie = "clegacy_token"

const claimsKey = "claims"

var errTokenRevoked = errors.New("token revoked")

// ClaimsFrom returns the claims of an authenticated request.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// RequestLogger logs one line per request with the default slog logger.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.Default().LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// RequestID tags every request with a uuid.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// ClientInfo records the caller's address and user agent for the access log
// and attaches a request-scoped logger.
func ClientInfo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := model.WithClientInfo(req.Context(), model.ClientInfo{IP: c.RealIP(), Browser: req.UserAgent()})
			ctx = logging.WithLogger(ctx, slog.Default().With("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func sessionConfig(jwtSvc *auth.JWTService, tokens auth.TokenStoreInterface) echojwt.Config {
	return echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + TokenCookie,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtSvc.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := ClaimsFrom(c); ok {
				withSlot(c, claims.Slot())
			}
		},
	}
}

func withSlot(c echo.Context, slot string) {
	ctx := model.WithSessionSlot(c.Request().Context(), slot)
	c.SetRequest(c.Request().WithContext(ctx))
}

// RequireSession rejects requests without a valid, unrevoked access token and
// scopes the session store to the token's session.
func RequireSession(jwtSvc *auth.JWTService, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	cfg := sessionConfig(jwtSvc, tokens)
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return respondError(c, apperrors.ErrNotAuthenticated)
	}
	return echojwt.WithConfig(cfg)
}

// OptionalSession is RequireSession for public routes: requests without a
// valid token run in a throwaway anonymous session.
func OptionalSession(jwtSvc *auth.JWTService, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	cfg := sessionConfig(jwtSvc, tokens)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		withSlot(c, "anonymous:"+uuid.NewString())
		return nil
	}
	return echojwt.WithConfig(cfg)
}

// RequireRole lets through only tokens whose role claim is role.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return respondError(c, apperrors.ErrNotAuthenticated)
			}
			if claims.Role != role {
				return respondError(c, apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// remaining returns how long the token of claims stays valid.
func remaining(claims *auth.Claims, now time.Time) time.Duration {
	if claims.ExpiresAt == nil {
		return auth.AccessTokenExpiry
	}
	if d := claims.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return time.Second
}
