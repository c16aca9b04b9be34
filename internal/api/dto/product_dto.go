package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/admin-console/internal/domain"
)

// ProductRequest is the product form payload.
type ProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	ProductType string          `json:"productType"`
	Description string          `json:"description"`
}

// Problems lists the fields that fail validation.
func (r ProductRequest) Problems() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(r.Name) == "" {
		problems["name"] = "required"
	}
	if r.Price.IsNegative() {
		problems["price"] = "must not be negative"
	}
	if r.Stock < 0 {
		problems["stock"] = "must not be negative"
	}
	return problems
}

// ToCreate maps the form onto the backend create payload.
func (r ProductRequest) ToCreate() domain.CreateProduct {
	return domain.CreateProduct{
		Name:        strings.TrimSpace(r.Name),
		Price:       r.Price,
		Stock:       r.Stock,
		Size:        r.Size,
		Color:       r.Color,
		ProductType: r.ProductType,
		Description: r.Description,
	}
}

// ProductPatchRequest is a partial product update.
type ProductPatchRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Size        *string          `json:"size"`
	Color       *string          `json:"color"`
	ProductType *string          `json:"productType"`
	Description *string          `json:"description"`
}

// Problems lists the fields that fail validation.
func (r ProductPatchRequest) Problems() map[string]any {
	problems := map[string]any{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		problems["name"] = "must not be blank"
	}
	if r.Price != nil && r.Price.IsNegative() {
		problems["price"] = "must not be negative"
	}
	if r.Stock != nil && *r.Stock < 0 {
		problems["stock"] = "must not be negative"
	}
	return problems
}

// ToPatch maps the form onto the backend patch.
func (r ProductPatchRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		Size:        r.Size,
		Color:       r.Color,
		ProductType: r.ProductType,
		Description: r.Description,
	}
}

// ProductFilters echoes the product search back to the page.
type ProductFilters struct {
	Search string `json:"search"`
}
