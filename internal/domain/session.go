package domain

import "time"

// Role is an opaque backend role name such as "Admin" or "Manager".
type Role = string

// User is the persisted record describing who is signed in to the console.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// SessionClaims is what the console reads out of a backend token. It is
// decoded for display and gating only; the backend re-validates every call.
type SessionClaims struct {
	Subject   string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the claims are past their expiry at now.
func (c SessionClaims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
