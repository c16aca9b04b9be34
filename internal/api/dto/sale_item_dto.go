package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/admin-console/internal/domain"
)

// SaleItemRequest is the sale item form payload.
type SaleItemRequest struct {
	Name     string `json:"name"`
	ItemType string `json:"itemType"`
}

// Problems lists the fields that fail validation.
func (r SaleItemRequest) Problems() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(r.Name) == "" {
		problems["name"] = "required"
	}
	return problems
}

func (r SaleItemRequest) ToInput() domain.SaleItemInput {
	return domain.SaleItemInput{Name: strings.TrimSpace(r.Name), ItemType: strings.TrimSpace(r.ItemType)}
}

// SaleEntityRequest is the sale entity form payload.
type SaleEntityRequest struct {
	Colors      []string         `json:"colors"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Size        *string          `json:"size"`
	IsPublished *bool            `json:"isPublished"`
}

// Problems lists the fields that fail validation. requirePrice applies to new entities.
func (r SaleEntityRequest) Problems(requirePrice bool) map[string]any {
	problems := map[string]any{}
	switch {
	case r.Price == nil && requirePrice:
		problems["price"] = "required"
	case r.Price != nil && r.Price.IsNegative():
		problems["price"] = "must not be negative"
	}
	if r.Stock != nil && *r.Stock < 0 {
		problems["stock"] = "must not be negative"
	}
	return problems
}

func (r SaleEntityRequest) ToInput() domain.SaleEntityInput {
	colors := make([]string, 0, len(r.Colors))
	for _, c := range r.Colors {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	if len(colors) == 0 {
		colors = nil
	}
	return domain.SaleEntityInput{
		Colors:      colors,
		Price:       r.Price,
		Stock:       r.Stock,
		Size:        r.Size,
		IsPublished: r.IsPublished,
	}
}

// CreatedResponse carries the id of a new resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// SaleItemFilters echoes the sale item search back to the page.
type SaleItemFilters struct {
	Name     string `json:"name,omitempty"`
	ItemType string `json:"itemType,omitempty"`
	HasMedia *bool  `json:"hasMedia,omitempty"`
	Color    string `json:"color,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
	SortDir  string `json:"sortDir,omitempty"`
}

// SaleEntityFilters echoes the entity search back to the page.
type SaleEntityFilters struct {
	HasMedia  *bool  `json:"hasMedia,omitempty"`
	Color     string `json:"color,omitempty"`
	Published *bool  `json:"published,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`
	SortDir   string `json:"sortDir,omitempty"`
}
