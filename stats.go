package edgardex

import (
	"context"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
)

// StatsService serves the crawl statistics views. Read-only; every call
// re-reads the store.
type StatsService struct {
	svc statsUseCase
	obs *observer
}

// Crawl returns crawl-wide counts, scoped to one company when companyName
// is non-blank (case-insensitive substring, same as search).
func (s *StatsService) Crawl(ctx context.Context, companyName string) (_ CrawlStats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.crawl", start, err) }()

	m, err := s.svc.CrawlMetrics(ctx, companyName)
	if err != nil {
		return CrawlStats{}, err
	}
	return fromMetrics(m), nil
}

// Yearly returns per-year rollups, newest year first.
func (s *StatsService) Yearly(ctx context.Context) (_ []YearlyStats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.yearly", start, err) }()

	years, err := s.svc.YearlyMetrics(ctx)
	if err != nil {
		return nil, err
	}
	return fromYearly(years), nil
}

// CompanyYearly returns per-year rollups for one company.
func (s *StatsService) CompanyYearly(ctx context.Context, companyName string) (_ []YearlyStats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.company_yearly", start, err) }()

	years, err := s.svc.CompanyYearlyMetrics(ctx, companyName)
	if err != nil {
		return nil, err
	}
	return fromYearly(years), nil
}

// Errors returns one page of processing failures, most recent first. A
// non-blank companyName scopes the listing.
func (s *StatsService) Errors(ctx context.Context, companyName string, page, pageSize int) (_ Page[ProcessingFailure], err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.errors", start, err) }()

	p, err := s.svc.ProcessingErrorsPage(ctx, companyName, page, pageSize)
	if err != nil {
		return Page[ProcessingFailure]{}, err
	}
	return mapPage(p, fromFailure), nil
}

// Breakdown returns one page of per-company stats, largest document count
// first.
func (s *StatsService) Breakdown(ctx context.Context, page, pageSize int) (_ Page[CompanyStats], err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.breakdown", start, err) }()

	p, err := s.svc.CompanyBreakdown(ctx, page, pageSize)
	if err != nil {
		return Page[CompanyStats]{}, err
	}
	return mapPage(p, fromCompanyMetrics), nil
}

func fromMetrics(m domain.CrawlMetrics) CrawlStats {
	counts := make(map[string]int, len(m.FormTypeCounts))
	for form, n := range m.FormTypeCounts {
		counts[form.String()] = n
	}
	return CrawlStats{
		TotalDocuments:       m.TotalDocuments,
		ProcessedDocuments:   m.ProcessedDocuments,
		UnprocessedDocuments: m.UnprocessedDocuments,
		SuccessfulDocuments:  m.SuccessfulDocuments,
		FailedDocuments:      m.FailedDocuments,
		SuccessRate:          m.SuccessRate,
		FormTypeCounts:       counts,
		LastProcessedDate:    m.LastProcessedDate,
	}
}

func fromYearly(years []domain.YearlyMetrics) []YearlyStats {
	out := make([]YearlyStats, len(years))
	for i, y := range years {
		out[i] = YearlyStats{
			CrawlStats: fromMetrics(y.CrawlMetrics),
			Year:       y.Year,
			Companies:  y.Companies,
		}
	}
	return out
}

func fromCompanyMetrics(m domain.CompanyMetrics) CompanyStats {
	return CompanyStats{
		CrawlStats:  fromMetrics(m.CrawlMetrics),
		CompanyName: m.CompanyName,
	}
}

func fromFailure(pe domain.ProcessingError) ProcessingFailure {
	return ProcessingFailure{
		CompanyName:  pe.CompanyName,
		Form:         pe.Form.String(),
		URL:          pe.URL,
		ErrorMessage: pe.ErrorMessage,
		ErrorDate:    pe.ErrorDate,
	}
}
