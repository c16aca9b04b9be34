package domain

import "encoding/json"

// Page is a backend paged result. Some endpoints send totalCount instead of
// total; both decode into Total.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// UnmarshalJSON accepts either total or totalCount.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Items      []T  `json:"items"`
		Page       int  `json:"page"`
		PageSize   int  `json:"pageSize"`
		Total      *int `json:"total"`
		TotalCount *int `json:"totalCount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Items = raw.Items
	if p.Items == nil {
		p.Items = []T{}
	}
	p.Page = raw.Page
	p.PageSize = raw.PageSize
	switch {
	case raw.Total != nil:
		p.Total = *raw.Total
	case raw.TotalCount != nil:
		p.Total = *raw.TotalCount
	default:
		p.Total = 0
	}
	return nil
}
