package domain

import "github.com/shopspring/decimal"

// ProductMedia is one stored file attached to a product.
type ProductMedia struct {
	URL              string `json:"url"`
	Type             string `json:"type"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
	IsUploadComplete bool   `json:"isUploadComplete"`
}

// Product is the catalog entry as returned by the backend.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	ProductType string          `json:"productType"`
	Description string          `json:"description,omitempty"`
	Media       []ProductMedia  `json:"media,omitempty"`
}

// CreateProduct is the create payload; the backend assigns id and media.
type CreateProduct struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	ProductType string          `json:"productType"`
	Description string          `json:"description,omitempty"`
}

// ProductPatch is a partial update; nil fields are not sent.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Size        *string          `json:"size,omitempty"`
	Color       *string          `json:"color,omitempty"`
	ProductType *string          `json:"productType,omitempty"`
	Description *string          `json:"description,omitempty"`
}
