package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/session"
)

// DashboardHandler serves the console landing page.
type DashboardHandler struct {
	managerRoles []string
	adminRoles   []string
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(managerRoles, adminRoles []string) *DashboardHandler {
	return &DashboardHandler{managerRoles: managerRoles, adminRoles: adminRoles}
}

// Show GET /admin. Links are limited to what the user's role may open.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	links := make([]dto.NavLink, 0, 4)
	if sess := session.FromContext(c); sess != nil {
		if sess.HasRole(h.managerRoles...) {
			links = append(links,
				dto.NavLink{Label: "Unsent orders", Path: "/admin/orders/unsent"},
				dto.NavLink{Label: "Products", Path: "/admin/products"},
				dto.NavLink{Label: "Sale items", Path: "/admin/sale-items"},
			)
		}
		if sess.HasRole(h.adminRoles...) {
			links = append(links, dto.NavLink{Label: "Audit trail", Path: "/admin/audit"})
		}
	}
	return render(c, "dashboard", fiber.Map{"links": links}, nil)
}
