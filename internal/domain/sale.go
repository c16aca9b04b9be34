package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemMedia is a file attached to a sale entity. Type is one of image, video or binary.
type ItemMedia struct {
	URL              string `json:"url"`
	Type             string `json:"type"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
	IsUploadComplete bool   `json:"isUploadComplete"`
}

// SaleEntity is a purchasable variant of a sale item.
type SaleEntity struct {
	ID          string          `json:"id,omitempty"`
	Colors      []string        `json:"colors"`
	Media       []ItemMedia     `json:"media"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	IsPublished bool            `json:"isPublished"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// SaleItem groups sale entities under a name and item type.
type SaleItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ItemType     string       `json:"itemType"`
	SaleEntities []SaleEntity `json:"saleEntities"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}

// SaleItemInput is the create/update payload for a sale item.
type SaleItemInput struct {
	Name     string `json:"name,omitempty"`
	ItemType string `json:"itemType,omitempty"`
}

// SaleEntityInput is the create/update payload for a sale entity.
type SaleEntityInput struct {
	Colors      []string         `json:"colors,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Size        *string          `json:"size,omitempty"`
	IsPublished *bool            `json:"isPublished,omitempty"`
}
