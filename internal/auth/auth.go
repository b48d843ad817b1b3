// Package auth issues and verifies the bearer tokens that identify API
// callers, and carries the resulting user through a request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = time.Hour

// Claims is the JWT payload. The subject holds the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Signer signs and verifies HS256 tokens with a shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer for secret. It rejects an empty secret.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("auth.NewSigner: secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign issues a token for u.
func (s *Signer) Sign(u domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Signer.Sign: %w", err)
	}
	return token, nil
}

// Parse verifies token and returns the user it names. Expired tokens,
// tokens signed with another key or algorithm, and tokens whose subject is
// not a UUID are rejected.
func (s *Signer) Parse(token string) (domain.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Signer.Parse: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Signer.Parse: subject: %w", err)
	}
	return domain.User{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the user stored in ctx, or nil for an anonymous request.
func UserFrom(ctx context.Context) *domain.User {
	u, ok := ctx.Value(ctxKey{}).(domain.User)
	if !ok {
		return nil
	}
	return &u
}
