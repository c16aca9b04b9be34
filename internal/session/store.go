package session

import (
	"context"
	"fmt"
)

// Record is everything persisted for one session: the bearer token and the
// JSON user record, stored under two separate keys.
type Record struct {
	Token string
	User  string
}

// Empty reports whether nothing was persisted.
func (r Record) Empty() bool {
	return r.Token == "" && r.User == ""
}

// Store persists session records keyed by session id.
type Store interface {
	// Load returns the stored record; a missing session yields an empty record and no error.
	Load(ctx context.Context, sid string) (Record, error)
	Save(ctx context.Context, sid string, rec Record) error
	// Clear removes both persisted keys.
	Clear(ctx context.Context, sid string) error
	Close() error
}

// TokenKey is the key the bearer token is persisted under.
func TokenKey(prefix, sid string) string {
	return fmt.Sprintf("%s:%s:token", prefix, sid)
}

// UserKey is the key the JSON user record is persisted under.
func UserKey(prefix, sid string) string {
	return fmt.Sprintf("%s:%s:user", prefix, sid)
}
