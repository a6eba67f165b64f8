package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"clegacy/internal/model"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a valid token is presented where the
// other kind is expected.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims represents JWT claims. SessionID names the session slot of the
// browsing context that logged in and survives token refreshes.
type Claims struct {
	UserID    int        `json:"user_id"`
	UserName  string     `json:"user_name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	SessionID string     `json:"sid,omitempty"`
	Type      string     `json:"typ"`
	jwt.RegisteredClaims
}

// Slot returns the session slot of the token, falling back to its id.
func (c *Claims) Slot() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return c.ID
}

// Session rebuilds the session view carried by the claims.
func (c *Claims) Session() model.Session {
	var login string
	if c.IssuedAt != nil {
		login = c.IssuedAt.UTC().Format(time.RFC3339)
	}
	return model.Session{UserID: c.UserID, UserName: c.UserName, Email: c.Email, Role: c.Role, LoginTime: login}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Secret returns the signing key for middleware configuration.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// GenerateAccessToken signs an access token for session under tokenID.
func (s *JWTService) GenerateAccessToken(tokenID, sessionID string, session model.Session) (string, error) {
	return s.sign(tokenID, sessionID, TokenTypeAccess, session, AccessTokenExpiry)
}

// GenerateRefreshToken generates a new refresh token for the session.
// The refresh token ID is returned separately for storage in Redis.
func (s *JWTService) GenerateRefreshToken(sessionID string, session model.Session) (tokenID string, token string, err error) {
	tokenID = NewTokenID()
	token, err = s.sign(tokenID, sessionID, TokenTypeRefresh, session, RefreshTokenExpiry)
	return tokenID, token, err
}

func (s *JWTService) sign(tokenID, sessionID, typ string, session model.Session, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:    session.UserID,
		UserName:  session.UserName,
		Email:     session.Email,
		Role:      session.Role,
		SessionID: sessionID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, errors.New("token ID not found")
	}
	return claims, nil
}

// ValidateAccessToken validates a token presented as a bearer credential.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a token presented for refresh or revocation.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validateType(tokenString, typ string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// NewTokenID generates a unique token ID.
func NewTokenID() string {
	return uuid.New().String()
}
