package session

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signedToken mints an HS256 token with the given expiry. The manager
// never verifies signatures, so the key is arbitrary.
func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "t1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func writeRaw(store *Store, body string) error {
	return os.WriteFile(store.Path(), []byte(body), 0600)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"expired an hour ago", signedToken(t, now.Add(-time.Hour)), true},
		{"valid for another hour", signedToken(t, now.Add(time.Hour)), false},
		{"opaque non-JWT token", "abc", false},
		{"empty token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(tt.token, now); got != tt.want {
				t.Errorf("tokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenExpiredWithoutExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "t1"})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}

	if tokenExpired(signed, time.Now()) {
		t.Error("tokenExpired() = true for a token with no exp claim")
	}
}
