// Package auth verifies the bearer tokens of UI callers.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/domain"
)

// Claims are the marketplace token claims.
type Claims struct {
	Role   string `json:"role"`
	ShopID string `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager for secret.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for who.
func (m *Manager) Issue(who domain.Identity) (string, error) {
	now := m.now()
	claims := Claims{
		Role:   string(who.Actor),
		ShopID: who.ShopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   who.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a token (with or without the Bearer prefix) and returns the caller.
func (m *Manager) Parse(token string) (domain.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing token", apperr.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	who := domain.Identity{
		UserID: claims.Subject,
		Actor:  domain.Actor(strings.ToLower(claims.Role)),
		ShopID: claims.ShopID,
	}
	if who.UserID == "" || !who.Actor.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: incomplete claims", apperr.ErrUnauthorized)
	}
	return who, nil
}
