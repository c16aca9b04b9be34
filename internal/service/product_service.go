package service

import (
	"context"
	"io"
	"net/url"

	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/domain"
)

const productMediaField = "MediaFile"

// ProductService maps the products resource.
type ProductService struct {
	client *apiclient.Client
}

// NewProductService builds the service.
func NewProductService(client *apiclient.Client) *ProductService {
	return &ProductService{client: client}
}

// List returns every product; the backend does not page this resource.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	if err := s.client.Get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := s.client.Get(ctx, "/products/"+escape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, input domain.CreateProduct) (*domain.Product, error) {
	var product domain.Product
	if err := s.client.Post(ctx, "/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	var product domain.Product
	if err := s.client.Put(ctx, "/products/"+escape(id), patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/products/"+escape(id), nil)
}

// Duplicate creates a copy of product id without its media.
func (s *ProductService) Duplicate(ctx context.Context, id string) (*domain.Product, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, domain.CreateProduct{
		Name:        src.Name + " (copy)",
		Price:       src.Price,
		Stock:       src.Stock,
		Size:        src.Size,
		Color:       src.Color,
		ProductType: src.ProductType,
		Description: src.Description,
	})
}

// UploadMedia attaches one file to the product.
func (s *ProductService) UploadMedia(ctx context.Context, id, filename string, file io.Reader) error {
	return s.client.PostMultipart(ctx, "/products/"+escape(id)+"/upload", productMediaField, filename, file, nil)
}

// DeleteMedia removes the media stored at mediaURL.
func (s *ProductService) DeleteMedia(ctx context.Context, id, mediaURL string) error {
	return s.client.Delete(ctx, "/products/"+escape(id)+"/media", url.Values{"mediaUrl": {mediaURL}})
}
