package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/admin-console/internal/api/dto"
	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/view"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

const uploadField = "file"

// ProductsHandler serves the product catalog pages.
type ProductsHandler struct {
	products  *service.ProductService
	tracker   *view.Tracker
	publisher *Publisher
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService, tracker *view.Tracker, publisher *Publisher) *ProductsHandler {
	return &ProductsHandler{products: products, tracker: tracker, publisher: publisher}
}

// List GET /admin/products. The backend returns the whole catalog; search and
// paging happen here.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page := uiPage(c)
	search := strings.TrimSpace(c.Query("search"))

	load := h.tracker.Begin(c.UserContext(), view.Key(sessionID(c), "products"))
	defer load.Finish()

	all, err := h.products.List(load.Context())
	if err != nil {
		return view.Fail(err, "Failed to load products")
	}
	matched := view.FilterFold(all, search, func(p domain.Product) string { return p.Name })
	return renderLoad(c, load, "products",
		dto.NewListData(view.Paginate(matched, page), len(matched), page, dto.ProductFilters{Search: search}))
}

// Get GET /admin/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return view.Fail(err, "Failed to load product")
	}
	return render(c, "product", product, nil)
}

// Create POST /admin/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems()); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), req.ToCreate())
	if err != nil {
		return view.Fail(err, "Failed to create product")
	}
	h.publisher.emit(c, events.EventProductCreated, events.TargetProduct, product.ID, map[string]any{"name": product.Name})
	c.Status(fiber.StatusCreated)
	return render(c, "product", product, view.Success("Product created"))
}

// Update PUT /admin/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.ProductPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := invalid(req.Problems()); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), id, req.ToPatch())
	if err != nil {
		return view.Fail(err, "Failed to update product")
	}
	h.publisher.emit(c, events.EventProductUpdated, events.TargetProduct, id, nil)
	return render(c, "product", product, view.Success("Product updated"))
}

// Delete DELETE /admin/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return view.Fail(err, "Failed to delete product")
	}
	h.publisher.emit(c, events.EventProductDeleted, events.TargetProduct, id, nil)
	return render(c, "product_deleted", fiber.Map{"id": id}, view.Success("Product deleted"))
}

// Duplicate POST /admin/products/:id/duplicate.
func (h *ProductsHandler) Duplicate(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.products.Duplicate(c.UserContext(), id)
	if err != nil {
		return view.Fail(err, "Failed to duplicate product")
	}
	h.publisher.emit(c, events.EventProductCreated, events.TargetProduct, product.ID, map[string]any{"duplicateOf": id})
	c.Status(fiber.StatusCreated)
	return render(c, "product", product, view.Success("Product duplicated"))
}

// UploadMedia POST /admin/products/:id/media. Returns the refreshed product.
func (h *ProductsHandler) UploadMedia(c *fiber.Ctx) error {
	id := c.Params("id")
	header, err := c.FormFile(uploadField)
	if err != nil {
		return apperrors.NewValidationError("a file is required", map[string]any{uploadField: "required"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	ctx := c.UserContext()
	if err := h.products.UploadMedia(ctx, id, header.Filename, file); err != nil {
		return view.Fail(err, "Failed to upload media")
	}
	h.publisher.emit(c, events.EventProductMediaChanged, events.TargetProduct, id, map[string]any{"added": header.Filename})

	product, err := h.products.Get(ctx, id)
	if err != nil {
		return view.Fail(err, "Failed to load product")
	}
	return render(c, "product", product, view.Success("Media uploaded"))
}

// DeleteMedia DELETE /admin/products/:id/media?mediaUrl=. Returns the refreshed product.
func (h *ProductsHandler) DeleteMedia(c *fiber.Ctx) error {
	id := c.Params("id")
	mediaURL := strings.TrimSpace(c.Query("mediaUrl"))
	if mediaURL == "" {
		return apperrors.NewValidationError("mediaUrl is required", map[string]any{"mediaUrl": "required"})
	}

	ctx := c.UserContext()
	if err := h.products.DeleteMedia(ctx, id, mediaURL); err != nil {
		return view.Fail(err, "Failed to delete media")
	}
	h.publisher.emit(c, events.EventProductMediaChanged, events.TargetProduct, id, map[string]any{"removed": mediaURL})

	product, err := h.products.Get(ctx, id)
	if err != nil {
		return view.Fail(err, "Failed to load product")
	}
	return render(c, "product", product, view.Success("Media deleted"))
}
