package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingAddress is where an order goes.
type ShippingAddress struct {
	ReceiverName   string `json:"receiverName"`
	ReceiverFamily string `json:"receiverFamily"`
	NationalID     string `json:"nationalId"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	PostalCode     string `json:"postalCode"`
	Province       string `json:"province"`
	City           string `json:"city"`
}

// Colors decodes either a JSON array of strings or a single comma separated string.
type Colors []string

func (c *Colors) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	out := Colors{}
	for _, part := range strings.Split(single, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*c = out
	return nil
}

// OrderLine is one purchased sale entity.
type OrderLine struct {
	SaleItemID   string          `json:"saleItemId"`
	SaleEntityID string          `json:"saleEntityId"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Size         string          `json:"size,omitempty"`
	Colors       Colors          `json:"colors,omitempty"`
}

// Order is the admin view of a customer order.
type Order struct {
	OrderNo         string          `json:"orderNo"`
	UserID          string          `json:"userId,omitempty"`
	AnonymousID     string          `json:"anonymousId,omitempty"`
	Lines           []OrderLine     `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	MessageToShop   string          `json:"messageToShop,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	IsSentByPost    bool            `json:"isSentByPost"`
	SentAt          *time.Time      `json:"sentAt,omitempty"`
	SentBy          string          `json:"sentBy,omitempty"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
}

// MarkSentRequest is the body of the mark-sent call.
type MarkSentRequest struct {
	OrderNo        string `json:"orderNo"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}
