package session

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/auth"
	"github.com/storefront/admin-console/internal/config"
	"github.com/storefront/admin-console/internal/domain"
)

const sessionKey = "console_session"

// Manager owns the session lifecycle: it resolves the cookie on each request,
// starts sessions on login and ends them on logout.
type Manager struct {
	store      Store
	decoder    *auth.TokenDecoder
	cookieName string
	secure     bool
	ttl        time.Duration
	loginPath  string
	now        func() time.Time
	logger     *zap.Logger
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager wires a manager over store.
func NewManager(store Store, decoder *auth.TokenDecoder, cfg config.SessionConfig, loginPath string, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		decoder:    decoder,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
		ttl:        cfg.TTL(),
		loginPath:  loginPath,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Middleware loads the caller's session and makes it available to the guard,
// handlers and the API client for the rest of the request.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := m.open(c.Cookies(m.cookieName))
		if err := sess.Load(c.UserContext()); err != nil {
			m.logger.Warn("session load failed; treating as signed out", zap.Error(err))
		}
		if sess.Token() != "" {
			m.setCookie(c, sess.ID())
		}
		m.attach(c, sess)
		return c.Next()
	}
}

// Start begins a fresh session for token and issues its cookie.
func (m *Manager) Start(c *fiber.Ctx, token string) (*domain.User, error) {
	sess := m.open(uuid.NewString())
	user, err := sess.Begin(c.UserContext(), token)
	if err != nil {
		return nil, err
	}

	m.setCookie(c, sess.ID())

	// drop whatever the previous cookie pointed at
	if prev := FromContext(c); prev != nil && prev.ID() != "" {
		if _, err := prev.Logout(c.UserContext()); err != nil {
			m.logger.Warn("failed to clear previous session", zap.Error(err))
		}
	}
	m.attach(c, sess)
	return user, nil
}

// End logs the session out, expires the cookie and returns the login path.
func (m *Manager) End(c *fiber.Ctx) (string, error) {
	sess := FromContext(c)
	if sess == nil {
		sess = m.open("")
	}
	target, err := sess.Logout(c.UserContext())
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return target, err
}

// Close tears down the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Open builds an unloaded session for sid. Exposed for tests and tools.
func (m *Manager) Open(sid string) *Session {
	return m.open(sid)
}

func (m *Manager) open(sid string) *Session {
	if _, err := uuid.Parse(sid); err != nil {
		sid = ""
	}
	return newSession(sid, m.store, m.decoder, m.now, m.loginPath)
}

// setCookie issues the session cookie. Its expiry follows the store TTL.
func (m *Manager) setCookie(c *fiber.Ctx, sid string) {
	cookie := &fiber.Cookie{
		Name:     m.cookieName,
		Value:    sid,
		Path:     "/",
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if m.ttl > 0 {
		cookie.Expires = m.now().Add(m.ttl)
	}
	c.Cookie(cookie)
}

func (m *Manager) attach(c *fiber.Ctx, sess *Session) {
	c.Locals(sessionKey, sess)
	c.SetUserContext(apiclient.WithTokenSource(c.UserContext(), sess))
}

// FromContext returns the session Middleware attached, or nil.
func FromContext(c *fiber.Ctx) *Session {
	sess, _ := c.Locals(sessionKey).(*Session)
	return sess
}

// Context returns ctx carrying sess as the API token source.
func Context(ctx context.Context, sess *Session) context.Context {
	return apiclient.WithTokenSource(ctx, sess)
}
