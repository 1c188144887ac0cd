package model

// Page is the pagination envelope used by list endpoints.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage computes total_pages from the count and page size. Size must be
// positive.
func NewPage[T any](items []T, total, page, size int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := (total + size - 1) / size
	return Page[T]{Items: items, Total: total, Page: page, TotalPages: pages}
}
