// Package identity resolves the caller of a request from a bearer token issued
// by the external auth provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthenticated is returned for any missing, malformed or rejected token.
var ErrUnauthenticated = errors.New("unauthenticated")

const (
	defaultAudience = "authenticated"
	defaultLeeway   = 30 * time.Second
)

// Identity is an authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// IIdentityProvider maps a bearer token to an Identity.
type IIdentityProvider interface {
	Verify(ctx context.Context, bearer string) (Identity, error)
}

// Claims are the fields read from provider-issued access tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 access tokens signed with the project secret.
type JWTProvider struct {
	secret   []byte
	audience string
	now      func() time.Time
}

var _ IIdentityProvider = (*JWTProvider)(nil)

// NewJWTProvider returns a provider for the given signing secret.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{
		secret:   []byte(secret),
		audience: defaultAudience,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for expiry checks.
func (p *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	p.now = now
	return p
}

func (p *JWTProvider) Verify(ctx context.Context, bearer string) (Identity, error) {
	raw := strings.TrimSpace(bearer)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	if len(p.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: verifier not configured", ErrUnauthenticated)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return Identity{}, fmt.Errorf("%w: invalid subject", ErrUnauthenticated)
	}
	return Identity{UserID: userID, Email: claims.Email}, nil
}

// Sign mints a token the provider accepts. Used by tests and local tooling.
func (p *JWTProvider) Sign(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		Email: email,
		Role:  defaultAudience,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
