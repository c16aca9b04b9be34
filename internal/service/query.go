package service

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// SortDir is the list ordering direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// values builds a query string, skipping unset parameters.
type values struct {
	url.Values
}

func newValues() values {
	return values{Values: url.Values{}}
}

func (v values) str(key, val string) values {
	if trimmed := strings.TrimSpace(val); trimmed != "" {
		v.Set(key, trimmed)
	}
	return v
}

func (v values) boolPtr(key string, val *bool) values {
	if val != nil {
		v.Set(key, strconv.FormatBool(*val))
	}
	return v
}

func (v values) page(page, pageSize int) values {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(pageSize))
	return v
}

func (v values) sort(sortBy string, dir SortDir) values {
	if sortBy != "" {
		v.Set("sortBy", sortBy)
	}
	if dir != "" {
		v.Set("sortDir", string(dir))
	}
	return v
}

func validSortDir(dir SortDir) bool {
	return dir == "" || dir == SortAsc || dir == SortDesc
}

func oneOf(val string, allowed ...string) bool {
	if val == "" {
		return true
	}
	for _, a := range allowed {
		if val == a {
			return true
		}
	}
	return false
}

// Bool returns a pointer to b, for optional filters.
func Bool(b bool) *bool {
	return &b
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
