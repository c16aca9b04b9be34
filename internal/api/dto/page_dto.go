package dto

import (
	"github.com/storefront/admin-console/internal/domain"
	"github.com/storefront/admin-console/internal/view"
)

// PageModel is the envelope every console page returns.
type PageModel struct {
	Page   string       `json:"page"`
	User   *domain.User `json:"user,omitempty"`
	Data   any          `json:"data,omitempty"`
	Notice *view.Notice `json:"notice,omitempty"`
}

// ListData is a paged list as a table renders it. Page.Index is 0-based.
type ListData[T any] struct {
	Items              []T         `json:"items"`
	Total              int         `json:"total"`
	Page               view.UIPage `json:"page"`
	RowsPerPageOptions []int       `json:"rowsPerPageOptions"`
	Filters            any         `json:"filters,omitempty"`
}

// NewListData builds list data, never with nil items.
func NewListData[T any](items []T, total int, page view.UIPage, filters any) ListData[T] {
	if items == nil {
		items = []T{}
	}
	return ListData[T]{
		Items:              items,
		Total:              total,
		Page:               page,
		RowsPerPageOptions: view.PageSizes,
		Filters:            filters,
	}
}

// NavLink is a dashboard entry the current user may open.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}
