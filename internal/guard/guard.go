package guard

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/auth"
	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/session"
)

// State is where a navigation stands after the guard looked at the session.
type State int

const (
	Loading State = iota
	Unauthenticated
	Unauthorized
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Evaluate decides the guard state for sess against the required roles.
// An empty required set admits any authenticated user.
func Evaluate(sess *session.Session, required auth.RoleSet) State {
	if sess == nil || sess.Loading() {
		return Loading
	}
	if !sess.IsAuthenticated() {
		return Unauthenticated
	}
	if required.Empty() {
		return Authorized
	}
	if !sess.HasRole(required.Roles()...) {
		return Unauthorized
	}
	return Authorized
}

// Guard turns guard states into redirects. It is defence in depth only; the
// backend authorizes every call on its own.
type Guard struct {
	loginPath        string
	unauthorizedPath string
	logger           *zap.Logger
}

// New builds a guard redirecting to loginPath and unauthorizedPath.
func New(loginPath, unauthorizedPath string, logger *zap.Logger) *Guard {
	return &Guard{loginPath: loginPath, unauthorizedPath: unauthorizedPath, logger: logger}
}

// Require admits the request when the session is valid and, if roles are
// given, its role is one of them. It must run after session.Manager.Middleware.
func (g *Guard) Require(roles ...domain.Role) fiber.Handler {
	required := auth.NewRoleSet(roles...)

	return func(c *fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess != nil && sess.Loading() {
			if err := sess.Load(c.UserContext()); err != nil {
				g.logger.Warn("guard: session load failed", zap.Error(err))
			}
		}

		switch Evaluate(sess, required) {
		case Authorized:
			return c.Next()
		case Unauthorized:
			g.logger.Info("guard: role not permitted",
				zap.String("path", c.Path()),
				zap.String("role", roleOf(sess)))
			return c.Redirect(g.unauthorizedPath, fiber.StatusFound)
		default:
			if sess != nil && sess.Expired() {
				if _, err := sess.Logout(c.UserContext()); err != nil {
					g.logger.Warn("guard: failed to clear expired session", zap.Error(err))
				}
			}
			return c.Redirect(g.loginRedirect(c), fiber.StatusFound)
		}
	}
}

func (g *Guard) loginRedirect(c *fiber.Ctx) string {
	return g.loginPath + "?redir=" + url.QueryEscape(c.OriginalURL())
}

func roleOf(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	if user := sess.CurrentUser(); user != nil {
		return user.Role
	}
	return ""
}
