package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
)

// --- Mocks ---

type mockMetrics struct {
	crawl  domain.CrawlMetrics
	errs   []domain.ProcessingError
	years  []domain.YearlyMetrics
	err    error
	called bool

	lastCompany string
}

func (m *mockMetrics) CrawlMetrics(_ context.Context, companyName string) (domain.CrawlMetrics, error) {
	m.called = true
	m.lastCompany = companyName
	return m.crawl, m.err
}

func (m *mockMetrics) ProcessingErrors(_ context.Context, companyName string) ([]domain.ProcessingError, error) {
	m.called = true
	m.lastCompany = companyName
	return m.errs, m.err
}

func (m *mockMetrics) YearlyMetrics(_ context.Context) ([]domain.YearlyMetrics, error) {
	m.called = true
	return m.years, m.err
}

func (m *mockMetrics) CompanyYearlyMetrics(_ context.Context, companyName string) ([]domain.YearlyMetrics, error) {
	m.called = true
	m.lastCompany = companyName
	return m.years, m.err
}

type mockFinder struct {
	records []domain.DocumentRecord
	err     error
}

func (m *mockFinder) FindRecords(_ context.Context, _ domain.Filter) ([]domain.DocumentRecord, error) {
	return m.records, m.err
}

func breakdownRecords(t *testing.T) []domain.DocumentRecord {
	t.Helper()

	filed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]domain.DocumentRecord, 0, 3)
	for _, spec := range []struct {
		company string
		url     string
	}{
		{"Apple Inc.", "https://www.sec.gov/a1.htm"},
		{"Apple Inc.", "https://www.sec.gov/a2.htm"},
		{"Tesla Inc.", "https://www.sec.gov/t1.htm"},
	} {
		rec, err := domain.NewRecord(spec.company, domain.Form10K, filed, spec.url)
		if err != nil {
			t.Fatalf("new record: %v", err)
		}
		recs = append(recs, rec)
	}
	return recs
}

// --- Tests ---

func TestCrawlMetrics_TrimsCompanyScope(t *testing.T) {
	metrics := &mockMetrics{crawl: domain.CrawlMetrics{TotalDocuments: 5}}
	svc := New(metrics, &mockFinder{})

	m, err := svc.CrawlMetrics(context.Background(), "  Apple ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalDocuments != 5 {
		t.Errorf("metrics not passed through: %+v", m)
	}
	if metrics.lastCompany != "Apple" {
		t.Errorf("expected trimmed company scope, got %q", metrics.lastCompany)
	}
}

func TestCrawlMetrics_StoreError(t *testing.T) {
	metrics := &mockMetrics{err: domain.ErrStorageUnavailable}
	svc := New(metrics, &mockFinder{})

	_, err := svc.CrawlMetrics(context.Background(), "")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestProcessingErrors_Delegates(t *testing.T) {
	metrics := &mockMetrics{errs: []domain.ProcessingError{
		{CompanyName: "Apple Inc.", URL: "https://www.sec.gov/a1.htm", ErrorMessage: "HTTP 429"},
	}}
	svc := New(metrics, &mockFinder{})

	errs, err := svc.ProcessingErrors(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 1 || errs[0].ErrorMessage != "HTTP 429" {
		t.Fatalf("errors not passed through: %+v", errs)
	}
}

func TestProcessingErrorsPage_Windows(t *testing.T) {
	all := make([]domain.ProcessingError, 5)
	for i := range all {
		all[i] = domain.ProcessingError{URL: "https://www.sec.gov/doc.htm", ErrorMessage: "boom"}
	}
	metrics := &mockMetrics{errs: all}
	svc := New(metrics, &mockFinder{})

	page, err := svc.ProcessingErrorsPage(context.Background(), "", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 || page.TotalCount != 5 || page.TotalPages != 3 {
		t.Errorf("unexpected page: items=%d total=%d pages=%d",
			len(page.Items), page.TotalCount, page.TotalPages)
	}
	if !page.HasNextPage || !page.HasPrevPage {
		t.Errorf("expected middle-page flags, got next=%v prev=%v", page.HasNextPage, page.HasPrevPage)
	}
}

func TestProcessingErrorsPage_InvalidWindow(t *testing.T) {
	metrics := &mockMetrics{}
	svc := New(metrics, &mockFinder{})

	_, err := svc.ProcessingErrorsPage(context.Background(), "", -1, 10)
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if metrics.called {
		t.Error("store must not be called on invalid input")
	}
}

func TestYearlyMetrics_Delegates(t *testing.T) {
	metrics := &mockMetrics{years: []domain.YearlyMetrics{{Year: 2024}, {Year: 2023}}}
	svc := New(metrics, &mockFinder{})

	years, err := svc.YearlyMetrics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(years) != 2 || years[0].Year != 2024 {
		t.Fatalf("years not passed through: %+v", years)
	}
}

func TestCompanyYearlyMetrics_RequiresCompany(t *testing.T) {
	metrics := &mockMetrics{}
	svc := New(metrics, &mockFinder{})

	_, err := svc.CompanyYearlyMetrics(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if metrics.called {
		t.Error("store must not be called on invalid input")
	}
}

func TestCompanyYearlyMetrics_Delegates(t *testing.T) {
	metrics := &mockMetrics{years: []domain.YearlyMetrics{{Year: 2024}}}
	svc := New(metrics, &mockFinder{})

	years, err := svc.CompanyYearlyMetrics(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(years) != 1 {
		t.Fatalf("years not passed through: %+v", years)
	}
	if metrics.lastCompany != "Apple" {
		t.Errorf("expected company scope, got %q", metrics.lastCompany)
	}
}

func TestCompanyBreakdown_AggregatesAndPages(t *testing.T) {
	finder := &mockFinder{records: breakdownRecords(t)}
	svc := New(&mockMetrics{}, finder)

	page, err := svc.CompanyBreakdown(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 companies, got %d", page.TotalCount)
	}
	// Largest document count first.
	if page.Items[0].CompanyName != "Apple Inc." || page.Items[0].TotalDocuments != 2 {
		t.Errorf("unexpected first company: %+v", page.Items[0])
	}
	if page.Items[1].CompanyName != "Tesla Inc." || page.Items[1].TotalDocuments != 1 {
		t.Errorf("unexpected second company: %+v", page.Items[1])
	}
}

func TestCompanyBreakdown_SecondPage(t *testing.T) {
	finder := &mockFinder{records: breakdownRecords(t)}
	svc := New(&mockMetrics{}, finder)

	page, err := svc.CompanyBreakdown(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].CompanyName != "Tesla Inc." {
		t.Fatalf("expected Tesla on page 2, got %+v", page.Items)
	}
	if page.TotalPages != 2 || page.HasNextPage || !page.HasPrevPage {
		t.Errorf("unexpected paging metadata: %+v", page)
	}
}

func TestCompanyBreakdown_PageSizeCap(t *testing.T) {
	svc := New(&mockMetrics{}, &mockFinder{})

	_, err := svc.CompanyBreakdown(context.Background(), 1, MaxPageSize+1)
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestCompanyBreakdown_FinderError(t *testing.T) {
	svc := New(&mockMetrics{}, &mockFinder{err: domain.ErrStorageUnavailable})

	_, err := svc.CompanyBreakdown(context.Background(), 1, 10)
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
