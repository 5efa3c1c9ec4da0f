package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the bearer token carries an exp claim in the
// past. The signature is NOT verified — only the server can do that — this is
// a local shortcut to skip a doomed profile fetch on restore. Tokens without
// an exp claim, or that don't parse as JWTs, are treated as not expired and
// left for the server to judge.
func TokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(now)
}
