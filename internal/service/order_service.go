package service

import (
	"context"
	"strings"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/domain"
)

// OrderSearch filters the admin order list. Page is 1-based.
type OrderSearch struct {
	IsSentByPost *bool
	Query        string
	Page         int
	PageSize     int
}

// OrderService maps the admin orders resource.
type OrderService struct {
	client *apiclient.Client
}

// NewOrderService builds the service.
func NewOrderService(client *apiclient.Client) *OrderService {
	return &OrderService{client: client}
}

// AdminSearch lists orders. Cancel ctx to abandon a superseded search.
func (s *OrderService) AdminSearch(ctx context.Context, params OrderSearch) (*domain.Page[domain.Order], error) {
	query := newValues().
		boolPtr("isSentByPost", params.IsSentByPost).
		str("q", params.Query).
		page(params.Page, params.PageSize)

	var page domain.Page[domain.Order]
	if err := s.client.Get(ctx, "/admin/orders", query.Values, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminGet fetches one order by its order number.
func (s *OrderService) AdminGet(ctx context.Context, orderNo string) (*domain.Order, error) {
	var order domain.Order
	if err := s.client.Get(ctx, "/admin/orders/"+escape(orderNo), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdminMarkSent flags an order as posted. A blank tracking number is omitted.
func (s *OrderService) AdminMarkSent(ctx context.Context, orderNo, trackingNumber string) error {
	body := domain.MarkSentRequest{
		OrderNo:        orderNo,
		TrackingNumber: strings.TrimSpace(trackingNumber),
	}
	return s.client.Patch(ctx, "/admin/orders/"+escape(orderNo)+"/mark-sent", body, nil)
}
