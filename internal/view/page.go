package view

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPageSize is used when the requested rows-per-page is not offered.
const DefaultPageSize = 20

const maxPageSize = 50

// PageSizes are the rows-per-page options the list pages offer.
var PageSizes = []int{10, 20, maxPageSize}

// MaxIndex is the largest page index accepted. Offset and Backend stay in
// range for every offered size up to it.
const MaxIndex = math.MaxInt/(maxPageSize+1) - 1

// UIPage is a list position as the page sees it: Index is 0-based.
type UIPage struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// NewUIPage clamps index and size to what the list pages offer.
func NewUIPage(index, size int) UIPage {
	if index < 0 {
		index = 0
	}
	if index > MaxIndex {
		index = MaxIndex
	}
	if !allowedSize(size) {
		size = DefaultPageSize
	}
	return UIPage{Index: index, Size: size}
}

// ParseUIPage reads the page and rowsPerPage query values. Garbage falls back
// to defaults; an out of range page lands on MaxIndex.
func ParseUIPage(page, rowsPerPage string) UIPage {
	index, _ := strconv.Atoi(strings.TrimSpace(page))
	size, _ := strconv.Atoi(strings.TrimSpace(rowsPerPage))
	return NewUIPage(index, size)
}

// Backend returns the 1-based page number the REST API expects.
func (p UIPage) Backend() int {
	return p.Index + 1
}

// Offset is the index of the first row on this page.
func (p UIPage) Offset() int {
	return p.Index * p.Size
}

func allowedSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Paginate slices items for p. A page past the end is empty.
func Paginate[T any](items []T, p UIPage) []T {
	p = NewUIPage(p.Index, p.Size)
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// FilterFold keeps items whose key contains needle, ignoring case.
// A blank needle keeps everything.
func FilterFold[T any](items []T, needle string, key func(T) string) []T {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return items
	}
	fold := cases.Fold()
	want := fold.String(needle)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(fold.String(key(item)), want) {
			out = append(out, item)
		}
	}
	return out
}
