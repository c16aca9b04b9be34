package service

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/domain"
	apperrors "github.com/storefront/admin-console/pkg/util/errorutil"
)

const saleEntityMediaField = "file"

// SaleItemQuery filters the sale item list. Page is 1-based.
type SaleItemQuery struct {
	Name     string
	ItemType string
	HasMedia *bool
	Color    string
	SortBy   string
	SortDir  SortDir
	Page     int
	PageSize int
}

// SaleEntityQuery filters the entities of one sale item. Page is 1-based.
type SaleEntityQuery struct {
	HasMedia  *bool
	Color     string
	Published *bool
	SortBy    string
	SortDir   SortDir
	Page      int
	PageSize  int
}

var (
	saleItemSortKeys   = []string{"name", "createdAt", "updatedAt"}
	saleEntitySortKeys = []string{"createdAt", "updatedAt", "price", "stock", "size"}
)

func (q SaleItemQuery) validate() error {
	if !oneOf(q.SortBy, saleItemSortKeys...) {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported sortBy %q", q.SortBy), map[string]any{"allowed": saleItemSortKeys})
	}
	if !validSortDir(q.SortDir) {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported sortDir %q", q.SortDir), nil)
	}
	return nil
}

func (q SaleEntityQuery) validate() error {
	if !oneOf(q.SortBy, saleEntitySortKeys...) {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported sortBy %q", q.SortBy), map[string]any{"allowed": saleEntitySortKeys})
	}
	if !validSortDir(q.SortDir) {
		return apperrors.NewValidationError(fmt.Sprintf("unsupported sortDir %q", q.SortDir), nil)
	}
	return nil
}

type createdID struct {
	ID string `json:"id"`
}

// SaleItemService maps sale items, their entities and entity media.
type SaleItemService struct {
	client *apiclient.Client
}

// NewSaleItemService builds the service.
func NewSaleItemService(client *apiclient.Client) *SaleItemService {
	return &SaleItemService{client: client}
}

func itemPath(id string) string {
	return "/sale-items/" + escape(id)
}

func entityPath(itemID, entityID string) string {
	return itemPath(itemID) + "/entities/" + escape(entityID)
}

// Search lists sale items.
func (s *SaleItemService) Search(ctx context.Context, q SaleItemQuery) (*domain.Page[domain.SaleItem], error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	query := newValues().
		str("name", q.Name).
		str("itemType", q.ItemType).
		boolPtr("hasMedia", q.HasMedia).
		str("color", q.Color).
		sort(q.SortBy, q.SortDir).
		page(q.Page, q.PageSize)

	var page domain.Page[domain.SaleItem]
	if err := s.client.Get(ctx, "/sale-items", query.Values, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *SaleItemService) Get(ctx context.Context, id string) (*domain.SaleItem, error) {
	var item domain.SaleItem
	if err := s.client.Get(ctx, itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create returns the id the backend assigned.
func (s *SaleItemService) Create(ctx context.Context, input domain.SaleItemInput) (string, error) {
	var res createdID
	if err := s.client.Post(ctx, "/sale-items", input, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (s *SaleItemService) Update(ctx context.Context, id string, input domain.SaleItemInput) error {
	return s.client.Put(ctx, itemPath(id), input, nil)
}

func (s *SaleItemService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, itemPath(id), nil)
}

// ListEntities lists the variants of sale item itemID.
func (s *SaleItemService) ListEntities(ctx context.Context, itemID string, q SaleEntityQuery) (*domain.Page[domain.SaleEntity], error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	query := newValues().
		boolPtr("hasMedia", q.HasMedia).
		str("color", q.Color).
		boolPtr("published", q.Published).
		sort(q.SortBy, q.SortDir).
		page(q.Page, q.PageSize)

	var page domain.Page[domain.SaleEntity]
	if err := s.client.Get(ctx, itemPath(itemID)+"/entities", query.Values, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *SaleItemService) AddEntity(ctx context.Context, itemID string, input domain.SaleEntityInput) error {
	return s.client.Post(ctx, itemPath(itemID)+"/entities", input, nil)
}

func (s *SaleItemService) UpdateEntity(ctx context.Context, itemID, entityID string, input domain.SaleEntityInput) error {
	return s.client.Put(ctx, entityPath(itemID, entityID), input, nil)
}

func (s *SaleItemService) RemoveEntity(ctx context.Context, itemID, entityID string) error {
	return s.client.Delete(ctx, entityPath(itemID, entityID), nil)
}

// UploadEntityMedia attaches a file to a sale entity and returns the stored media.
func (s *SaleItemService) UploadEntityMedia(ctx context.Context, itemID, entityID, filename string, file io.Reader) (*domain.ItemMedia, error) {
	var media domain.ItemMedia
	if err := s.client.PostMultipart(ctx, entityPath(itemID, entityID)+"/media", saleEntityMediaField, filename, file, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// DeleteEntityMedia removes the media stored at fileURL.
func (s *SaleItemService) DeleteEntityMedia(ctx context.Context, itemID, entityID, fileURL string) error {
	return s.client.Delete(ctx, entityPath(itemID, entityID)+"/media", url.Values{"fileUrl": {fileURL}})
}
