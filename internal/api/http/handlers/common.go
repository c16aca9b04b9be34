package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/session"
	"github.com/storefront/admin-console/internal/view"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) *domain.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	return sess.CurrentUser()
}

func sessionID(c *fiber.Ctx) string {
	sess := session.FromContext(c)
	if sess == nil {
		return ""
	}
	return sess.ID()
}

func render(c *fiber.Ctx, page string, data any, notice *view.Notice) error {
	return c.JSON(dto.PageModel{Page: page, User: currentUser(c), Data: data, Notice: notice})
}

// renderLoad writes the page only if load is still the latest for its key.
// A superseded load is reported as canceled and answered with no content.
func renderLoad(c *fiber.Ctx, load *view.Load, page string, data any) error {
	var err error
	if !load.Commit(func() { err = render(c, page, data, nil) }) {
		return context.Canceled
	}
	return err
}

func invalid(problems map[string]any) error {
	if len(problems) == 0 {
		return nil
	}
	return apperrors.NewValidationError("please correct the highlighted fields", problems)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

// parseBoolQuery reads an optional true/false filter. Anything else means unset.
func parseBoolQuery(val string) *bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return nil
	}
	return &parsed
}

func uiPage(c *fiber.Ctx) view.UIPage {
	return view.ParseUIPage(c.Query("page"), c.Query("rowsPerPage"))
}

// Publisher emits console events on behalf of the signed-in user. Failures are
// logged; auditing never fails a page.
type Publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPublisher wraps dispatcher.
func NewPublisher(dispatcher events.Dispatcher, logger *zap.Logger) *Publisher {
	if dispatcher == nil {
		dispatcher = events.Nop{}
	}
	return &Publisher{dispatcher: dispatcher, logger: logger}
}

func (p *Publisher) emit(c *fiber.Ctx, eventType events.EventType, targetType, targetID string, payload map[string]any) {
	p.emitAs(c, currentUser(c), eventType, targetType, targetID, payload)
}

func (p *Publisher) emitAs(c *fiber.Ctx, user *domain.User, eventType events.EventType, targetType, targetID string, payload map[string]any) {
	event := events.New(eventType, events.ActorFrom(user), targetType, targetID, payload)
	if err := p.dispatcher.Publish(context.WithoutCancel(c.UserContext()), event); err != nil {
		p.logger.Warn("failed to publish console event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
