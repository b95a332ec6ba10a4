package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestVerifyAcceptsSignedToken(t *testing.T) {
	p := NewJWTProvider("test-secret")
	uid := uuid.New()
	tok, err := p.Sign(uid, "bride@example.test", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got, err := p.Verify(context.Background(), "Bearer "+tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.UserID != uid || got.Email != "bride@example.test" {
		t.Fatalf("Verify: want=%s got=%+v", uid, got)
	}
}

func TestVerifyRejects(t *testing.T) {
	p := NewJWTProvider("test-secret")
	other := NewJWTProvider("other-secret")
	uid := uuid.New()

	wrongKey, _ := other.Sign(uid, "", time.Hour)
	expired, _ := NewJWTProvider("test-secret").
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Sign(uid, "", time.Hour)
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	wrongAudience, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid.String(),
			Audience:  jwt.ClaimStrings{"anon"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	cases := map[string]string{
		"empty":          "",
		"bearer only":    "Bearer ",
		"garbage":        "Bearer not.a.jwt",
		"wrong key":      wrongKey,
		"expired":        expired,
		"bad subject":    badSubject,
		"wrong audience": wrongAudience,
	}
	for name, tok := range cases {
		if _, err := p.Verify(context.Background(), tok); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: want ErrUnauthenticated got %v", name, err)
		}
	}
}
