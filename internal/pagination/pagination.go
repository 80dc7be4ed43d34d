// Package pagination implements the page-window math shared by every search
// operation and the metrics breakdown views. It is the only place paging
// formulas live; callers never re-derive them.
package pagination

import (
	"fmt"

	"github.com/filinglab/edgardex/internal/domain"
)

// Window is a validated [Skip, Skip+Take) slice window for one page request.
type Window struct {
	Skip int
	Take int
}

// NewWindow validates (page, pageSize) and returns the record window.
// page and pageSize are 1-based and must both be >= 1.
func NewWindow(page, pageSize int) (Window, error) {
	if page < 1 {
		return Window{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidParameter, page)
	}
	if pageSize < 1 {
		return Window{}, fmt.Errorf("%w: pageSize must be >= 1, got %d", domain.ErrInvalidParameter, pageSize)
	}
	return Window{Skip: (page - 1) * pageSize, Take: pageSize}, nil
}

// Page is one page of results plus derived paging metadata.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	PageNumber  int
	PageSize    int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

// NewPage assembles a Page from fetched items and the total match count.
//
//	totalPages = ceil(totalCount/pageSize), 0 when totalCount is 0
//	hasNextPage = page < totalPages
//	hasPrevPage = page > 1 (literal, even over an empty set)
func NewPage[T any](items []T, page, pageSize, totalCount int) Page[T] {
	totalPages := 0
	if totalCount > 0 && pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Page[T]{
		Items:       items,
		TotalCount:  totalCount,
		PageNumber:  page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Slice applies the window to a fully materialized result set. Used by the
// in-memory ranking path, where the whole candidate set is scored before
// paging. Negative window values are treated as zero, so Slice never panics
// on raw input.
func Slice[T any](items []T, w Window) []T {
	if w.Skip < 0 {
		w.Skip = 0
	}
	if w.Take < 0 {
		w.Take = 0
	}
	if w.Skip >= len(items) {
		return nil
	}
	end := w.Skip + w.Take
	if end > len(items) {
		end = len(items)
	}
	return items[w.Skip:end]
}

// Map converts a page of U into a page of V, keeping the paging metadata.
func Map[U, V any](p Page[U], fn func(U) V) Page[V] {
	items := make([]V, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[V]{
		Items:       items,
		TotalCount:  p.TotalCount,
		PageNumber:  p.PageNumber,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}
