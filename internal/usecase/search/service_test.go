package search

import (
	"context"
	"errors"
	"testing"

	"github.com/filinglab/edgardex/internal/domain"
)

func TestCompanySearch_PagesAndProjects(t *testing.T) {
	searcher := &mockSearcher{
		records: []domain.DocumentRecord{
			testRecord(t, "Apple Inc.", domain.Form10K, "2024-03-01", "https://www.sec.gov/a1.htm"),
			testRecord(t, "Apple Inc.", domain.Form10Q, "2024-01-15", "https://www.sec.gov/a2.htm"),
		},
		count: 25,
	}
	svc := newTestService(searcher, nil, nil)

	page, err := svc.CompanySearch(context.Background(), CompanyRequest{
		CompanyName: "Apple",
		Page:        2,
		PageSize:    10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !searcher.companyCalled {
		t.Error("expected SearchByCompany to be called")
	}
	if searcher.formCalled {
		t.Error("SearchByFormType should not be called")
	}
	if searcher.lastSkip != 10 || searcher.lastTake != 10 {
		t.Errorf("expected window skip=10 take=10, got skip=%d take=%d", searcher.lastSkip, searcher.lastTake)
	}
	if searcher.lastFilter.Company != "Apple" {
		t.Errorf("expected company filter %q, got %q", "Apple", searcher.lastFilter.Company)
	}

	if page.TotalCount != 25 || page.TotalPages != 3 {
		t.Errorf("expected totalCount=25 totalPages=3, got %d/%d", page.TotalCount, page.TotalPages)
	}
	if !page.HasNextPage || !page.HasPrevPage {
		t.Errorf("expected hasNext and hasPrev on middle page, got next=%v prev=%v",
			page.HasNextPage, page.HasPrevPage)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].RelevanceScore != 1.0 {
		t.Errorf("company search relevance must be 1.0, got %f", page.Items[0].RelevanceScore)
	}
	if page.Items[0].Highlights != nil {
		t.Error("company search must not carry highlights")
	}
}

func TestCompanySearch_AppliesDefaults(t *testing.T) {
	searcher := &mockSearcher{}
	svc := newTestService(searcher, nil, nil)

	page, err := svc.CompanySearch(context.Background(), CompanyRequest{CompanyName: "Apple"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.lastSkip != 0 || searcher.lastTake != DefaultPageSize {
		t.Errorf("expected default window skip=0 take=%d, got skip=%d take=%d",
			DefaultPageSize, searcher.lastSkip, searcher.lastTake)
	}
	if page.PageNumber != 1 || page.PageSize != DefaultPageSize {
		t.Errorf("expected page=1 pageSize=%d, got %d/%d", DefaultPageSize, page.PageNumber, page.PageSize)
	}
}

func TestCompanySearch_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name string
		req  CompanyRequest
	}{
		{"blank company", CompanyRequest{CompanyName: "   "}},
		{"unknown form", CompanyRequest{CompanyName: "Apple", FormTypes: []string{"13-G"}}},
		{"page size over cap", CompanyRequest{CompanyName: "Apple", PageSize: MaxPageSize + 1}},
		{"negative page", CompanyRequest{CompanyName: "Apple", Page: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			searcher := &mockSearcher{}
			svc := newTestService(searcher, nil, nil)

			_, err := svc.CompanySearch(context.Background(), tc.req)
			if !errors.Is(err, domain.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if searcher.companyCalled {
				t.Error("store must not be called on invalid input")
			}
		})
	}
}

func TestCompanySearch_EmptyStore(t *testing.T) {
	svc := newTestService(&mockSearcher{}, nil, nil)

	page, err := svc.CompanySearch(context.Background(), CompanyRequest{
		CompanyName: "Nonexistent",
		Page:        1,
		PageSize:    50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 || page.TotalCount != 0 || page.TotalPages != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
	if page.HasNextPage || page.HasPrevPage {
		t.Error("expected no next/prev on empty first page")
	}
}

func TestCompanySearch_IncludeContent(t *testing.T) {
	withText := testRecord(t, "Apple Inc.", domain.Form10K, "2024-03-01", "https://www.sec.gov/a1.htm")
	withoutText := testRecord(t, "Apple Inc.", domain.Form10Q, "2024-01-15", "https://www.sec.gov/a2.htm")

	searcher := &mockSearcher{records: []domain.DocumentRecord{withText, withoutText}, count: 2}
	content := &mockContent{texts: map[string]string{withText.ID(): "annual report text"}}
	svc := newTestService(searcher, nil, content)

	page, err := svc.CompanySearch(context.Background(), CompanyRequest{
		CompanyName:    "Apple",
		IncludeContent: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Items[0].Content != "annual report text" {
		t.Errorf("expected content attached, got %q", page.Items[0].Content)
	}
	if page.Items[1].Content != "" {
		t.Errorf("record without stored content must stay empty, got %q", page.Items[1].Content)
	}
}

func TestCompanySearch_CountErrorPropagates(t *testing.T) {
	searcher := &mockSearcher{countErr: domain.ErrStorageUnavailable}
	svc := newTestService(searcher, nil, nil)

	_, err := svc.CompanySearch(context.Background(), CompanyRequest{CompanyName: "Apple"})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCompanySearch_SearchErrorPropagates(t *testing.T) {
	searcher := &mockSearcher{err: domain.ErrStorageUnavailable}
	svc := newTestService(searcher, nil, nil)

	_, err := svc.CompanySearch(context.Background(), CompanyRequest{CompanyName: "Apple"})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestFormSearch_DelegatesToFormPath(t *testing.T) {
	searcher := &mockSearcher{
		records: []domain.DocumentRecord{
			testRecord(t, "Apple Inc.", domain.Form10K, "2024-03-01", "https://www.sec.gov/a1.htm"),
		},
		count: 1,
	}
	svc := newTestService(searcher, nil, nil)

	page, err := svc.FormSearch(context.Background(), FormRequest{
		FormTypes: []string{"10-K"},
		Companies: []string{"Apple Inc."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !searcher.formCalled {
		t.Error("expected SearchByFormType to be called")
	}
	if searcher.companyCalled {
		t.Error("SearchByCompany should not be called")
	}
	if len(searcher.lastFilter.Forms) != 1 || searcher.lastFilter.Forms[0] != domain.Form10K {
		t.Errorf("expected forms [10-K], got %v", searcher.lastFilter.Forms)
	}
	if len(searcher.lastFilter.Companies) != 1 {
		t.Errorf("expected exact company set, got %v", searcher.lastFilter.Companies)
	}
	if page.TotalCount != 1 {
		t.Errorf("expected totalCount 1, got %d", page.TotalCount)
	}
}

func TestFormSearch_EmptyFormsExpandToAllKnown(t *testing.T) {
	searcher := &mockSearcher{}
	svc := newTestService(searcher, nil, nil)

	if _, err := svc.FormSearch(context.Background(), FormRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searcher.lastFilter.Forms) != len(domain.KnownForms()) {
		t.Errorf("expected all %d known forms, got %d",
			len(domain.KnownForms()), len(searcher.lastFilter.Forms))
	}
}

func TestFormSearch_UnknownFormRejected(t *testing.T) {
	searcher := &mockSearcher{}
	svc := newTestService(searcher, nil, nil)

	_, err := svc.FormSearch(context.Background(), FormRequest{FormTypes: []string{"99-Z"}})
	if !errors.Is(err, domain.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if searcher.formCalled {
		t.Error("store must not be called on invalid input")
	}
}
