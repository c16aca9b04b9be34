package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/admin-console/internal/auth"
	"github.com/storefront/admin-console/internal/domain"
)

// ErrInvalidToken is returned when login yields a token that cannot start a session.
var ErrInvalidToken = errors.New("session token was invalid")

// Session is the console's belief about who is signed in for one browser.
// It is created per request by Manager and passed to the guard and services.
type Session struct {
	id        string
	store     Store
	decoder   *auth.TokenDecoder
	now       func() time.Time
	loginPath string

	mu     sync.RWMutex
	loaded bool
	record Record
}

func newSession(id string, store Store, decoder *auth.TokenDecoder, now func() time.Time, loginPath string) *Session {
	return &Session{id: id, store: store, decoder: decoder, now: now, loginPath: loginPath}
}

// ID returns the session id, empty for a browser without a session cookie.
func (s *Session) ID() string {
	return s.id
}

// Load consults the store once. Until it has run, Loading reports true. A
// store failure leaves the session empty and is returned for logging.
func (s *Session) Load(ctx context.Context) error {
	var (
		rec Record
		err error
	)
	if s.id != "" {
		rec, err = s.store.Load(ctx, s.id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if err != nil {
		s.record = Record{}
		return err
	}
	s.record = rec
	return nil
}

// Loading reports whether the store has not been consulted yet.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded
}

// Token returns the stored bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Token
}

// CurrentUser parses the persisted user record. Absence or a corrupt record yields nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	raw := s.record.User
	s.mu.RUnlock()

	if raw == "" {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// Claims decodes the stored token and returns its claims if it is unexpired.
func (s *Session) Claims() (domain.SessionClaims, bool) {
	return s.decoder.Valid(s.Token(), s.now())
}

// IsAuthenticated is re-derived from the stored token on every call.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Claims()
	return ok
}

// Expired reports whether a token is stored but no longer valid.
func (s *Session) Expired() bool {
	return s.Token() != "" && !s.IsAuthenticated()
}

// HasRole reports whether the signed-in user's role is one of roles.
// Without a valid session it is always false.
func (s *Session) HasRole(roles ...domain.Role) bool {
	if !s.IsAuthenticated() {
		return false
	}
	user := s.CurrentUser()
	if user == nil {
		return false
	}
	return auth.HasAnyRole(user.Role, roles...)
}

// Begin persists token and the user record derived from it.
func (s *Session) Begin(ctx context.Context, token string) (*domain.User, error) {
	claims, ok := s.decoder.Valid(token, s.now())
	if !ok {
		return nil, ErrInvalidToken
	}
	user := &domain.User{Email: claims.Email, Role: claims.Role}
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user record: %w", err)
	}
	rec := Record{Token: token, User: string(raw)}
	if err := s.store.Save(ctx, s.id, rec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.loaded = true
	s.record = rec
	s.mu.Unlock()
	return user, nil
}

// Logout clears both persisted keys and returns where to navigate next.
// The in-memory snapshot is dropped even if the store fails.
func (s *Session) Logout(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.record = Record{}
	s.loaded = true
	s.mu.Unlock()

	if s.id == "" {
		return s.loginPath, nil
	}
	if err := s.store.Clear(ctx, s.id); err != nil {
		return s.loginPath, err
	}
	return s.loginPath, nil
}
