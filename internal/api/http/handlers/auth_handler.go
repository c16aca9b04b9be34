package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/session"
	"github.com/storefront/admin-console/internal/view"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

const defaultLanding = "/admin"

// AuthHandler serves sign-in, sign-out and the unauthorized notice.
type AuthHandler struct {
	auth      *service.AuthService
	sessions  *session.Manager
	publisher *Publisher
	logger    *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, publisher *Publisher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, publisher: publisher, logger: logger}
}

// LoginPage GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	sess := session.FromContext(c)
	return render(c, "login", fiber.Map{
		"authenticated": sess != nil && sess.IsAuthenticated(),
		"redir":         safeRedirect(c.Query("redir")),
	}, nil)
}

// Login POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	problems := map[string]any{}
	if strings.TrimSpace(req.Username) == "" {
		problems["username"] = "required"
	}
	if req.Password == "" {
		problems["password"] = "required"
	}
	if err := invalid(problems); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return loginFailure(err)
	}

	user, err := h.sessions.Start(c, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return apperrors.NewUnauthorized("the backend issued a token the console cannot use")
		}
		return view.Fail(err, "Sign-in failed. Please try again.")
	}
	h.publisher.emitAs(c, user, events.EventSessionStarted, events.TargetSession, "", nil)

	target := safeRedirect(req.Redir)
	if isFormPost(c) {
		return c.Redirect(target, fiber.StatusFound)
	}
	return c.JSON(dto.LoginResponse{Redirect: target, User: user})
}

// Logout POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := currentUser(c)
	target, err := h.sessions.End(c)
	if err != nil {
		h.logger.Warn("failed to clear session store on logout", zap.Error(err))
	}
	if user != nil {
		h.publisher.emitAs(c, user, events.EventSessionEnded, events.TargetSession, "", nil)
	}
	return c.Redirect(target, fiber.StatusFound)
}

// Unauthorized GET /unauthorized.
func (h *AuthHandler) Unauthorized(c *fiber.Ctx) error {
	c.Status(fiber.StatusForbidden)
	return render(c, "unauthorized", nil, &view.Notice{
		Severity: view.SeverityError,
		Message:  "You do not have permission to view this page.",
	})
}

func loginFailure(err error) error {
	if errors.Is(err, service.ErrEmptyToken) {
		return apperrors.NewUnauthorized("sign-in failed")
	}
	switch apiclient.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewUnauthorized(apiclient.Message(err, "invalid username or password"))
	}
	return view.Fail(err, "Sign-in failed. Please try again.")
}

// safeRedirect keeps post-login navigation on this host.
func safeRedirect(redir string) string {
	redir = strings.TrimSpace(redir)
	if redir == "" || !strings.HasPrefix(redir, "/") || strings.HasPrefix(redir, "//") || strings.HasPrefix(redir, "/\\") {
		return defaultLanding
	}
	return redir
}

func isFormPost(c *fiber.Ctx) bool {
	ct := string(c.Request().Header.ContentType())
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}
