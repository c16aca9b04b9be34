package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/storefront/admin-console/internal/domain"
)

var (
	// ErrMalformedToken is returned for anything that does not decode as a JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrMissingExpiry is returned for tokens without an exp claim.
	ErrMissingExpiry = errors.New("token has no expiry")
)

// TokenDecoder reads claims out of backend-issued tokens without verifying
// the signature. The console only uses them for display and gating.
type TokenDecoder struct {
	roleClaim  string
	emailClaim string
	parser     *jwt.Parser
}

// NewTokenDecoder builds a decoder that reads the role from roleClaim and the
// email from emailClaim. Claim names are used exactly as given.
func NewTokenDecoder(roleClaim, emailClaim string) *TokenDecoder {
	if roleClaim == "" {
		roleClaim = "role"
	}
	if emailClaim == "" {
		emailClaim = "email"
	}
	return &TokenDecoder{
		roleClaim:  roleClaim,
		emailClaim: emailClaim,
		parser:     jwt.NewParser(),
	}
}

// RoleClaim returns the claim key the role is read from.
func (d *TokenDecoder) RoleClaim() string {
	return d.roleClaim
}

// Decode extracts subject, email, role and expiry. Expiry is not checked here.
func (d *TokenDecoder) Decode(tokenStr string) (domain.SessionClaims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return domain.SessionClaims{}, ErrMalformedToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(tokenStr, claims); err != nil {
		return domain.SessionClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return domain.SessionClaims{}, ErrMissingExpiry
	}

	subject, _ := claims.GetSubject()
	email := stringClaim(claims, d.emailClaim)
	if email == "" {
		email = subject
	}

	return domain.SessionClaims{
		Subject:   subject,
		Email:     email,
		Role:      stringClaim(claims, d.roleClaim),
		ExpiresAt: exp.Time,
	}, nil
}

// Valid decodes the token and reports whether it is unexpired at now.
func (d *TokenDecoder) Valid(tokenStr string, now time.Time) (domain.SessionClaims, bool) {
	claims, err := d.Decode(tokenStr)
	if err != nil || claims.Expired(now) {
		return domain.SessionClaims{}, false
	}
	return claims, true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	val, ok := claims[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}
