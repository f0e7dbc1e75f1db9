package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// tokenExpired reads the exp claim of a JWT without verifying its signature; the server stays the authority.
// Opaque (non-JWT) tokens never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
