// Package auth issues and verifies the bearer tokens used in account mode and
// carries the caller's identity through request contexts.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Manager signs and validates HS256 access tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager. secret must be at least 32 characters; config
// validation enforces that before the server starts.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// claims carries the user's email alongside the registered claims.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Issue returns a signed token with the user id as subject.
func (m *Manager) Issue(id domain.Identity) (string, error) {
	if id.Anonymous() {
		return "", fmt.Errorf("auth.Manager.Issue: %w: user id is required", domain.ErrValidation)
	}
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: strings.ToLower(id.Email),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Manager.Issue: sign: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the identity it carries. Every failure
// wraps domain.ErrUnauthenticated.
func (m *Manager) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("auth.Manager.Verify: %w: token is empty", domain.ErrUnauthenticated)
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.Manager.Verify: %w", errors.Join(domain.ErrUnauthenticated, err))
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("auth.Manager.Verify: %w: invalid claims", domain.ErrUnauthenticated)
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil || userID == uuid.Nil {
		return domain.Identity{}, fmt.Errorf("auth.Manager.Verify: %w: invalid subject", domain.ErrUnauthenticated)
	}
	return domain.Identity{UserID: userID, Email: c.Email}, nil
}
