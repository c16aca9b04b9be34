package service_test

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/service"
)

func TestProductService_ListAndGet(t *testing.T) {
	b := newBackend(t)
	b.raw(http.MethodGet, "/api/products", http.StatusOK,
		`[{"id":"p1","name":"Scarf","price":19.9,"stock":3},{"id":"p2","name":"Hat","price":"7","stock":0}]`)
	b.raw(http.MethodGet, "/api/products/p1", http.StatusOK, `{"id":"p1","name":"Scarf","price":19.9}`)
	svc := service.NewProductService(b.client())

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("19.9")))

	product, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Scarf", product.Name)
}

func TestProductService_UpdateSendsOnlySetFields(t *testing.T) {
	b := newBackend(t)
	b.raw(http.MethodPut, "/api/products/p1", http.StatusOK, `{"id":"p1","name":"Scarf","stock":9}`)
	svc := service.NewProductService(b.client())

	stock := 9
	_, err := svc.Update(context.Background(), "p1", domain.ProductPatch{Stock: &stock})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stock":9}`, b.last().Body)
}

func TestProductService_DuplicateCopiesWithoutMedia(t *testing.T) {
	b := newBackend(t)
	b.raw(http.MethodGet, "/api/products/p1", http.StatusOK,
		`{"id":"p1","name":"Scarf","price":19.9,"stock":3,"size":"M","color":"red","productType":"Textile","media":[{"url":"https://cdn.test/a.png"}]}`)
	b.raw(http.MethodPost, "/api/products", http.StatusCreated, `{"id":"p9","name":"Scarf (copy)"}`)
	svc := service.NewProductService(b.client())

	copied, err := svc.Duplicate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p9", copied.ID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(b.last().Body), &sent))
	assert.Equal(t, "Scarf (copy)", sent["name"])
	assert.Equal(t, "red", sent["color"])
	assert.NotContains(t, sent, "id")
	assert.NotContains(t, sent, "media")
}

func TestProductService_UploadMediaUsesMediaFileField(t *testing.T) {
	b := newBackend(t)
	var field, mediaType string
	b.on(http.MethodPost, "/api/products/p1/upload", func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, _ = mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for name := range r.MultipartForm.File {
				field = name
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	svc := service.NewProductService(b.client())

	require.NoError(t, svc.UploadMedia(context.Background(), "p1", "a.png", strings.NewReader("x")))
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.Equal(t, "MediaFile", field)
}

func TestProductService_DeleteMediaPassesURL(t *testing.T) {
	b := newBackend(t)
	svc := service.NewProductService(b.client())

	require.NoError(t, svc.DeleteMedia(context.Background(), "p1", "https://cdn.test/a.png?v=2"))
	call := b.last()
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "/api/products/p1/media", call.Path)
	assert.Equal(t, []string{"https://cdn.test/a.png?v=2"}, call.Query["mediaUrl"])
}
