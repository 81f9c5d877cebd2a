package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"newsroom/internal/model"
)

// DefaultSessionTTL is used when the service is built with a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

// ErrInvalidSession is returned for tokens that fail parsing or verification.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims carries the principal of a signed-in user.
type SessionClaims struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the request principal.
func (c *SessionClaims) Principal() model.Principal {
	return model.Principal{
		UserID:      c.UserID,
		Username:    c.Username,
		Role:        model.ParseRole(c.Role),
		DisplayName: c.DisplayName,
	}
}

// Session is an issued session token.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// JWTService signs and verifies session tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and session lifetime.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued sessions.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// IssueSession signs a new session token for p.
func (s *JWTService) IssueSession(p model.Principal) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &SessionClaims{
		UserID:      p.UserID,
		Username:    p.Username,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        generateTokenID(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{ID: claims.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateSession validates a session token and returns its claims.
func (s *JWTService) ValidateSession(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// generateTokenID generates a unique session ID.
func generateTokenID() string {
	return uuid.New().String()
}
