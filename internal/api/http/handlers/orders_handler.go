package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/view"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

// OrdersHandler serves the order fulfilment pages.
type OrdersHandler struct {
	orders    *service.OrderService
	tracker   *view.Tracker
	publisher *Publisher
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, tracker *view.Tracker, publisher *Publisher) *OrdersHandler {
	return &OrdersHandler{orders: orders, tracker: tracker, publisher: publisher}
}

// Unsent GET /admin/orders/unsent.
func (h *OrdersHandler) Unsent(c *fiber.Ctx) error {
	page := uiPage(c)
	query := strings.TrimSpace(c.Query("q"))

	load := h.tracker.Begin(c.UserContext(), view.Key(sessionID(c), "orders/unsent"))
	defer load.Finish()

	result, err := h.orders.AdminSearch(load.Context(), service.OrderSearch{
		IsSentByPost: service.Bool(false),
		Query:        query,
		Page:         page.Backend(),
		PageSize:     page.Size,
	})
	if err != nil {
		return view.Fail(err, "Failed to load orders")
	}
	return renderLoad(c, load, "orders_unsent",
		dto.NewListData(result.Items, result.Total, page, dto.OrderFilters{Query: query}))
}

// Get GET /admin/orders/:orderNo.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.AdminGet(c.UserContext(), c.Params("orderNo"))
	if err != nil {
		return view.Fail(err, "Failed to load order")
	}
	return render(c, "order", order, nil)
}

// MarkSent POST /admin/orders/:orderNo/mark-sent. Returns the refreshed order.
func (h *OrdersHandler) MarkSent(c *fiber.Ctx) error {
	orderNo := strings.TrimSpace(c.Params("orderNo"))
	if orderNo == "" {
		return apperrors.NewValidationError("order number required", nil)
	}
	var req dto.MarkSentRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	ctx := c.UserContext()
	if err := h.orders.AdminMarkSent(ctx, orderNo, req.TrackingNumber); err != nil {
		return view.Fail(err, "Failed to mark order as sent")
	}
	payload := map[string]any{}
	if tracking := strings.TrimSpace(req.TrackingNumber); tracking != "" {
		payload["trackingNumber"] = tracking
	}
	h.publisher.emit(c, events.EventOrderMarkedSent, events.TargetOrder, orderNo, payload)

	order, err := h.orders.AdminGet(ctx, orderNo)
	if err != nil {
		return view.Fail(err, "Order was marked as sent but could not be reloaded")
	}
	return render(c, "order", order, view.Success("Order marked as sent"))
}
