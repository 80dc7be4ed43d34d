package pagination

import (
	"errors"
	"testing"

	"github.com/filinglab/edgardex/internal/domain"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		page, pageSize int
		wantSkip       int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
		{1, 1, 0},
	}
	for _, tc := range tests {
		w, err := NewWindow(tc.page, tc.pageSize)
		if err != nil {
			t.Fatalf("NewWindow(%d, %d): %v", tc.page, tc.pageSize, err)
		}
		if w.Skip != tc.wantSkip || w.Take != tc.pageSize {
			t.Errorf("NewWindow(%d, %d) = %+v, want skip %d take %d",
				tc.page, tc.pageSize, w, tc.wantSkip, tc.pageSize)
		}
	}
}

func TestNewWindow_Invalid(t *testing.T) {
	for _, tc := range []struct{ page, pageSize int }{
		{0, 10}, {-1, 10}, {1, 0}, {1, -5}, {0, 0},
	} {
		_, err := NewWindow(tc.page, tc.pageSize)
		if !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("NewWindow(%d, %d) err = %v, want ErrInvalidParameter",
				tc.page, tc.pageSize, err)
		}
	}
}

// TestNewPage_Law checks the paging formulas over a grid of inputs.
func TestNewPage_Law(t *testing.T) {
	ceil := func(a, b int) int {
		if a == 0 {
			return 0
		}
		return (a + b - 1) / b
	}
	for _, total := range []int{0, 1, 9, 10, 11, 25, 100} {
		for _, size := range []int{1, 3, 10, 50} {
			for _, page := range []int{1, 2, 3, 7} {
				p := NewPage([]int{}, page, size, total)
				if p.TotalPages != ceil(total, size) {
					t.Errorf("total=%d size=%d: TotalPages = %d, want %d",
						total, size, p.TotalPages, ceil(total, size))
				}
				if p.HasNextPage != (page < p.TotalPages) {
					t.Errorf("total=%d size=%d page=%d: HasNextPage = %v",
						total, size, page, p.HasNextPage)
				}
				if p.HasPrevPage != (page > 1) {
					t.Errorf("page=%d: HasPrevPage = %v", page, p.HasPrevPage)
				}
			}
		}
	}
}

func TestNewPage_EmptySet(t *testing.T) {
	p := NewPage([]string{}, 1, 50, 0)
	if p.TotalPages != 0 || p.HasNextPage || p.HasPrevPage {
		t.Errorf("empty set page = %+v", p)
	}

	// Page 3 of an empty set: hasPrevPage stays literal.
	p = NewPage([]string{}, 3, 50, 0)
	if !p.HasPrevPage || p.HasNextPage {
		t.Errorf("page 3 of empty set = %+v", p)
	}
}

func TestNewPage_MiddlePage(t *testing.T) {
	// 25 records, page 2 of size 10: pages 1..3, both neighbors exist.
	p := NewPage(make([]int, 10), 2, 10, 25)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Errorf("page 2/3 flags = next %v prev %v", p.HasNextPage, p.HasPrevPage)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		w    Window
		want []int
	}{
		{"first page", Window{Skip: 0, Take: 2}, []int{1, 2}},
		{"middle", Window{Skip: 2, Take: 2}, []int{3, 4}},
		{"partial last", Window{Skip: 4, Take: 2}, []int{5}},
		{"past end", Window{Skip: 10, Take: 2}, nil},
		{"exact end", Window{Skip: 5, Take: 2}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Slice(items, tc.w)
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got[%d] = %d, want %d", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestMap_KeepsMetadata(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 2, 3, 8)
	mapped := Map(p, func(v int) string {
		if v == 2 {
			return "two"
		}
		return "n"
	})
	if mapped.TotalCount != 8 || mapped.PageNumber != 2 || mapped.TotalPages != 3 {
		t.Errorf("metadata lost: %+v", mapped)
	}
	if mapped.Items[1] != "two" {
		t.Errorf("Items[1] = %q", mapped.Items[1])
	}
	if !mapped.HasNextPage || !mapped.HasPrevPage {
		t.Error("flags lost in Map")
	}
}
