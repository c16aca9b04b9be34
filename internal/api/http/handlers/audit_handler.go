package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/repository"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/view"
)

// AuditHandler serves the admin-only console action trail.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List GET /admin/audit.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	page := uiPage(c)
	filters := dto.AuditFilters{
		Action:     strings.TrimSpace(c.Query("action")),
		Actor:      strings.TrimSpace(c.Query("actor")),
		TargetType: strings.TrimSpace(c.Query("targetType")),
	}
	result, err := h.audit.List(c.UserContext(), repository.AuditFilter{
		Action:     filters.Action,
		ActorEmail: filters.Actor,
		TargetType: filters.TargetType,
	}, page.Backend(), page.Size)
	if err != nil {
		return view.Fail(err, "Failed to load the audit trail")
	}
	return render(c, "audit", dto.NewListData(result.Items, result.Total, page, filters), nil)
}
