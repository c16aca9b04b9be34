package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront/admin-console/internal/api/http/handlers"
	"github.com/storefront/admin-console/internal/guard"
	"github.com/storefront/admin-console/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Orders    *handlers.OrdersHandler
	Products  *handlers.ProductsHandler
	SaleItems *handlers.SaleItemsHandler
	Audit     *handlers.AuditHandler

	Sessions     *session.Manager
	Guard        *guard.Guard
	LoginPath    string
	ManagerRoles []string
	AdminRoles   []string
}

// RegisterRoutes wires HTTP routes. Probes are served before the session
// middleware so they never touch the session store.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Use(cfg.Sessions.Middleware())

	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	app.Get(loginPath, cfg.Auth.LoginPage)
	app.Post(loginPath, cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/unauthorized", cfg.Auth.Unauthorized)

	admin := app.Group("/admin", cfg.Guard.Require())
	admin.Get("", cfg.Dashboard.Show)

	orders := admin.Group("/orders", cfg.Guard.Require(cfg.ManagerRoles...))
	orders.Get("/unsent", cfg.Orders.Unsent)
	orders.Get("/:orderNo", cfg.Orders.Get)
	orders.Post("/:orderNo/mark-sent", cfg.Orders.MarkSent)

	products := admin.Group("/products", cfg.Guard.Require(cfg.ManagerRoles...))
	products.Get("", cfg.Products.List)
	products.Post("", cfg.Products.Create)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)
	products.Post("/:id/duplicate", cfg.Products.Duplicate)
	products.Post("/:id/media", cfg.Products.UploadMedia)
	products.Delete("/:id/media", cfg.Products.DeleteMedia)

	saleItems := admin.Group("/sale-items", cfg.Guard.Require(cfg.ManagerRoles...))
	saleItems.Get("", cfg.SaleItems.List)
	saleItems.Post("", cfg.SaleItems.Create)
	saleItems.Get("/:id", cfg.SaleItems.Get)
	saleItems.Put("/:id", cfg.SaleItems.Update)
	saleItems.Delete("/:id", cfg.SaleItems.Delete)
	saleItems.Get("/:id/entities", cfg.SaleItems.Entities)
	saleItems.Post("/:id/entities", cfg.SaleItems.AddEntity)
	saleItems.Put("/:id/entities/:entityId", cfg.SaleItems.UpdateEntity)
	saleItems.Delete("/:id/entities/:entityId", cfg.SaleItems.RemoveEntity)
	saleItems.Post("/:id/entities/:entityId/media", cfg.SaleItems.UploadEntityMedia)
	saleItems.Delete("/:id/entities/:entityId/media", cfg.SaleItems.DeleteEntityMedia)

	admin.Get("/audit", cfg.Guard.Require(cfg.AdminRoles...), cfg.Audit.List)
}
