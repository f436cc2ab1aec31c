package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager(testSecret, time.Hour).WithClock(func() time.Time { return now })

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("valid token round trips", func(t *testing.T) {
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "alice" || claims.Subject != "alice" {
			t.Errorf("unexpected claims %+v", claims)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		later := m.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-another-secret", time.Hour).WithClock(func() time.Time { return now })
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "mallory"})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign none: %v", err)
		}
		if _, err := m.Validate(s); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("empty user id", func(t *testing.T) {
		if _, err := m.Generate(" "); err == nil {
			t.Error("expected error for empty user id")
		}
	})
}
