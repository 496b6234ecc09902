package sdk

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the server's JWT payload. The client holds no server
// key, so claims are read unverified; the server re-verifies every request.
type tokenClaims struct {
	UserID string `json:"user"`
	jwt.RegisteredClaims
}

// UserIDFromToken extracts the user id from an access token without
// verifying the signature.
func UserIDFromToken(token string) (string, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if claims.UserID != "" {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", fmt.Errorf("token has no user claim")
}

// TokenExpired reports whether the token's exp claim has passed. Tokens
// without an exp claim never expire client-side.
func TokenExpired(token string, now time.Time) bool {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}
