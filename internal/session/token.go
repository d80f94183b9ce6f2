package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether the bearer token carries an exp claim in
// the past. The client holds no signing key, so the token is decoded
// without verification; this is purely an optimization to skip a
// profile round-trip that is guaranteed to 401. Opaque or claimless
// tokens return false and are left for the server to judge.
func tokenExpired(tokenString string, now time.Time) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
