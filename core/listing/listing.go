// Package listing derives the visible slice of a collection: search filter,
// client-side pagination and the page-number window.
//
// Every list in the dashboard is fetched in full and paged here, so the cost
// grows with the collection. Swapping in server-side paging only means
// replacing View; callers depend on Page alone.
package listing

import (
	"strings"
)

const (
	DefaultPageSize = 10
	maxWindow       = 5
)

// Fields returns the designated searchable fields of an item.
type Fields[T any] func(T) []string

type Query struct {
	Search   string `query:"search"`
	Page     int    `query:"page"`
	PageSize int    `query:"-"`
}

type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	PageSize      int   `json:"page_size"`
	TotalPages    int   `json:"total_pages"`
	FilteredCount int   `json:"filtered_count"`
	TotalCount    int   `json:"total_count"`
	Window        []int `json:"window"`
	Empty         bool  `json:"empty"` // "no records" state
}

// Filter keeps items where at least one designated field contains term, ignoring case.
// A blank term returns items unchanged.
func Filter[T any](items []T, term string, fields Fields[T]) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || fields == nil {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		for _, fld := range fields(item) {
			if strings.Contains(strings.ToLower(fld), term) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// TotalPages is ceil(n / size).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (n + size - 1) / size
}

// Paginate returns the items of the requested page once clamped into [1, totalPages].
func Paginate[T any](items []T, page, size int) ([]T, int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	page = clamp(page, total)
	if total == 0 {
		return []T{}, page, total
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, total
}

// Window returns the page buttons to show, at most 5 of them.
func Window(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	current = clamp(current, total)

	var first, last int
	switch {
	case total <= maxWindow:
		first, last = 1, total
	case current <= 3:
		first, last = 1, maxWindow
	case current >= total-2:
		first, last = total-maxWindow+1, total
	default:
		first, last = current-2, current+2
	}
	pages := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}

// View filters the full collection then pages it.
func View[T any](items []T, q Query, fields Fields[T]) Page[T] {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filter(items, q.Search, fields)
	visible, page, total := Paginate(filtered, q.Page, size)
	return Page[T]{
		Items:         visible,
		Page:          page,
		PageSize:      size,
		TotalPages:    total,
		FilteredCount: len(filtered),
		TotalCount:    len(items),
		Window:        Window(page, total),
		Empty:         len(filtered) == 0,
	}
}

func clamp(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}
