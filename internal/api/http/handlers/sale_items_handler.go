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

// SaleItemsHandler serves sale items, their entities and entity media.
type SaleItemsHandler struct {
	items     *service.SaleItemService
	tracker   *view.Tracker
	publisher *Publisher
}

// NewSaleItemsHandler constructs handler.
func NewSaleItemsHandler(items *service.SaleItemService, tracker *view.Tracker, publisher *Publisher) *SaleItemsHandler {
	return &SaleItemsHandler{items: items, tracker: tracker, publisher: publisher}
}

// List GET /admin/sale-items.
func (h *SaleItemsHandler) List(c *fiber.Ctx) error {
	page := uiPage(c)
	filters := dto.SaleItemFilters{
		Name:     strings.TrimSpace(c.Query("name")),
		ItemType: strings.TrimSpace(c.Query("itemType")),
		HasMedia: parseBoolQuery(c.Query("hasMedia")),
		Color:    strings.TrimSpace(c.Query("color")),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
	}

	load := h.tracker.Begin(c.UserContext(), view.Key(sessionID(c), "sale-items"))
	defer load.Finish()

	result, err := h.items.Search(load.Context(), service.SaleItemQuery{
		Name:     filters.Name,
		ItemType: filters.ItemType,
		HasMedia: filters.HasMedia,
		Color:    filters.Color,
		SortBy:   filters.SortBy,
		SortDir:  service.SortDir(filters.SortDir),
		Page:     page.Backend(),
		PageSize: page.Size,
	})
	if err != nil {
		return view.Fail(err, "Failed to load sale items")
	}
	return renderLoad(c, load, "sale_items", dto.NewListData(result.Items, result.Total, page, filters))
}

// Get GET /admin/sale-items/:id.
func (h *SaleItemsHandler) Get(c *fiber.Ctx) error {
	item, err := h.items.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return view.Fail(err, "Failed to load sale item")
	}
	return render(c, "sale_item", item, nil)
}

// Create POST /admin/sale-items.
func (h *SaleItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.SaleItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems()); err != nil {
		return err
	}
	id, err := h.items.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return view.Fail(err, "Failed to create sale item")
	}
	h.publisher.emit(c, events.EventSaleItemChanged, events.TargetSaleItem, id, map[string]any{"op": "created"})
	c.Status(fiber.StatusCreated)
	return render(c, "sale_item_created", dto.CreatedResponse{ID: id}, view.Success("Sale item created"))
}

// Update PUT /admin/sale-items/:id.
func (h *SaleItemsHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.SaleItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems()); err != nil {
		return err
	}
	ctx := c.UserContext()
	if err := h.items.Update(ctx, id, req.ToInput()); err != nil {
		return view.Fail(err, "Failed to update sale item")
	}
	h.publisher.emit(c, events.EventSaleItemChanged, events.TargetSaleItem, id, map[string]any{"op": "updated"})

	item, err := h.items.Get(ctx, id)
	if err != nil {
		return view.Fail(err, "Failed to load sale item")
	}
	return render(c, "sale_item", item, view.Success("Sale item updated"))
}

// Delete DELETE /admin/sale-items/:id.
func (h *SaleItemsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.items.Delete(c.UserContext(), id); err != nil {
		return view.Fail(err, "Failed to delete sale item")
	}
	h.publisher.emit(c, events.EventSaleItemChanged, events.TargetSaleItem, id, map[string]any{"op": "deleted"})
	return render(c, "sale_item_deleted", fiber.Map{"id": id}, view.Success("Sale item deleted"))
}

// Entities GET /admin/sale-items/:id/entities.
func (h *SaleItemsHandler) Entities(c *fiber.Ctx) error {
	itemID := c.Params("id")
	page := uiPage(c)
	filters := dto.SaleEntityFilters{
		HasMedia:  parseBoolQuery(c.Query("hasMedia")),
		Color:     strings.TrimSpace(c.Query("color")),
		Published: parseBoolQuery(c.Query("published")),
		SortBy:    c.Query("sortBy"),
		SortDir:   c.Query("sortDir"),
	}

	load := h.tracker.Begin(c.UserContext(), view.Key(sessionID(c), "sale-items/"+itemID+"/entities"))
	defer load.Finish()

	result, err := h.items.ListEntities(load.Context(), itemID, service.SaleEntityQuery{
		HasMedia:  filters.HasMedia,
		Color:     filters.Color,
		Published: filters.Published,
		SortBy:    filters.SortBy,
		SortDir:   service.SortDir(filters.SortDir),
		Page:      page.Backend(),
		PageSize:  page.Size,
	})
	if err != nil {
		return view.Fail(err, "Failed to load sale entities")
	}
	return renderLoad(c, load, "sale_entities", dto.NewListData(result.Items, result.Total, page, filters))
}

// AddEntity POST /admin/sale-items/:id/entities.
func (h *SaleItemsHandler) AddEntity(c *fiber.Ctx) error {
	itemID := c.Params("id")
	var req dto.SaleEntityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems(true)); err != nil {
		return err
	}
	if err := h.items.AddEntity(c.UserContext(), itemID, req.ToInput()); err != nil {
		return view.Fail(err, "Failed to add sale entity")
	}
	h.publisher.emit(c, events.EventSaleEntityChanged, events.TargetSaleItem, itemID, map[string]any{"op": "added"})
	return h.renderItem(c, itemID, "Sale entity added")
}

// UpdateEntity PUT /admin/sale-items/:id/entities/:entityId.
func (h *SaleItemsHandler) UpdateEntity(c *fiber.Ctx) error {
	itemID, entityID := c.Params("id"), c.Params("entityId")
	var req dto.SaleEntityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems(false)); err != nil {
		return err
	}
	if err := h.items.UpdateEntity(c.UserContext(), itemID, entityID, req.ToInput()); err != nil {
		return view.Fail(err, "Failed to update sale entity")
	}
	h.publisher.emit(c, events.EventSaleEntityChanged, events.TargetSaleEntity, entityID, map[string]any{"op": "updated", "saleItemId": itemID})
	return h.renderItem(c, itemID, "Sale entity updated")
}

// RemoveEntity DELETE /admin/sale-items/:id/entities/:entityId.
func (h *SaleItemsHandler) RemoveEntity(c *fiber.Ctx) error {
	itemID, entityID := c.Params("id"), c.Params("entityId")
	if err := h.items.RemoveEntity(c.UserContext(), itemID, entityID); err != nil {
		return view.Fail(err, "Failed to remove sale entity")
	}
	h.publisher.emit(c, events.EventSaleEntityChanged, events.TargetSaleEntity, entityID, map[string]any{"op": "removed", "saleItemId": itemID})
	return h.renderItem(c, itemID, "Sale entity removed")
}

// UploadEntityMedia POST /admin/sale-items/:id/entities/:entityId/media.
func (h *SaleItemsHandler) UploadEntityMedia(c *fiber.Ctx) error {
	itemID, entityID := c.Params("id"), c.Params("entityId")
	header, err := c.FormFile(uploadField)
	if err != nil {
		return apperrors.NewValidationError("a file is required", map[string]any{uploadField: "required"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	media, err := h.items.UploadEntityMedia(c.UserContext(), itemID, entityID, header.Filename, file)
	if err != nil {
		return view.Fail(err, "Failed to upload media")
	}
	h.publisher.emit(c, events.EventSaleEntityChanged, events.TargetSaleEntity, entityID,
		map[string]any{"op": "media_added", "saleItemId": itemID, "url": media.URL})
	c.Status(fiber.StatusCreated)
	return render(c, "sale_entity_media", media, view.Success("Media uploaded"))
}

// DeleteEntityMedia DELETE /admin/sale-items/:id/entities/:entityId/media?fileUrl=.
func (h *SaleItemsHandler) DeleteEntityMedia(c *fiber.Ctx) error {
	itemID, entityID := c.Params("id"), c.Params("entityId")
	fileURL := strings.TrimSpace(c.Query("fileUrl"))
	if fileURL == "" {
		return apperrors.NewValidationError("fileUrl is required", map[string]any{"fileUrl": "required"})
	}
	if err := h.items.DeleteEntityMedia(c.UserContext(), itemID, entityID, fileURL); err != nil {
		return view.Fail(err, "Failed to delete media")
	}
	h.publisher.emit(c, events.EventSaleEntityChanged, events.TargetSaleEntity, entityID,
		map[string]any{"op": "media_removed", "saleItemId": itemID, "url": fileURL})
	return h.renderItem(c, itemID, "Media deleted")
}

func (h *SaleItemsHandler) renderItem(c *fiber.Ctx, itemID, message string) error {
	item, err := h.items.Get(c.UserContext(), itemID)
	if err != nil {
		return view.Fail(err, "Failed to load sale item")
	}
	return render(c, "sale_item", item, view.Success(message))
}
