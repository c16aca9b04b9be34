// Package authtest signs tokens shaped like the backend's for use in tests.
package authtest

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// Secret signs test tokens. The console never verifies it.
const Secret = "test-secret-key-for-unit-tests"

// Token signs a token for subject with role under the "role" claim, expiring after ttl.
// A negative ttl yields an already expired token.
func Token(t *testing.T, subject, role string, ttl time.Duration) string {
	t.Helper()
	return TokenWithClaims(t, jwt.MapClaims{
		"sub":   subject,
		"email": subject,
		"role":  role,
		"exp":   time.Now().Add(ttl).Unix(),
	})
}

// TokenWithClaims signs arbitrary claims.
func TokenWithClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	require.NoError(t, err)
	return tok
}
