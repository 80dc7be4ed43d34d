// Package stats serves the crawl statistics views: overall and per-company
// metrics, yearly rollups, processing error listings and the per-company
// breakdown. Read-only; every call re-reads the store.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
)

// Default page sizing for the paged views.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Service aggregates crawl statistics.
type Service struct {
	metrics MetricsReader
	finder  RecordFinder

	defaultPageSize int
	maxPageSize     int
}

// New creates a stats service.
func New(metrics MetricsReader, finder RecordFinder) *Service {
	return &Service{
		metrics: metrics,
		finder:  finder,

		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}
}

// CrawlMetrics returns crawl-wide counts, scoped to one company when
// companyName is non-blank (case-insensitive substring, same as search).
func (s *Service) CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error) {
	m, err := s.metrics.CrawlMetrics(ctx, strings.TrimSpace(companyName))
	if err != nil {
		return domain.CrawlMetrics{}, fmt.Errorf("crawl metrics: %w", err)
	}
	return m, nil
}

// ProcessingErrors returns the failed-record views, most recent first.
func (s *Service) ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error) {
	errs, err := s.metrics.ProcessingErrors(ctx, strings.TrimSpace(companyName))
	if err != nil {
		return nil, fmt.Errorf("processing errors: %w", err)
	}
	return errs, nil
}

// ProcessingErrorsPage returns one page of the error listing.
func (s *Service) ProcessingErrorsPage(
	ctx context.Context, companyName string, page, pageSize int,
) (pagination.Page[domain.ProcessingError], error) {
	page, pageSize, w, err := s.window(page, pageSize)
	if err != nil {
		return pagination.Page[domain.ProcessingError]{}, err
	}

	errs, err := s.ProcessingErrors(ctx, companyName)
	if err != nil {
		return pagination.Page[domain.ProcessingError]{}, err
	}

	items := pagination.Slice(errs, w)
	return pagination.NewPage(items, page, pageSize, len(errs)), nil
}

// YearlyMetrics returns per-year rollups, newest year first.
func (s *Service) YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error) {
	years, err := s.metrics.YearlyMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("yearly metrics: %w", err)
	}
	return years, nil
}

// CompanyYearlyMetrics returns per-year rollups for one company.
func (s *Service) CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, fmt.Errorf("%w: company name is required", domain.ErrInvalidParameter)
	}

	years, err := s.metrics.CompanyYearlyMetrics(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("company yearly metrics: %w", err)
	}
	return years, nil
}

// CompanyBreakdown returns one page of per-company metrics, largest document
// count first.
func (s *Service) CompanyBreakdown(
	ctx context.Context, page, pageSize int,
) (pagination.Page[domain.CompanyMetrics], error) {
	page, pageSize, w, err := s.window(page, pageSize)
	if err != nil {
		return pagination.Page[domain.CompanyMetrics]{}, err
	}

	recs, err := s.finder.FindRecords(ctx, domain.Filter{})
	if err != nil {
		return pagination.Page[domain.CompanyMetrics]{}, fmt.Errorf("company breakdown: %w", err)
	}

	all := domain.ComputeCompanyBreakdown(recs)
	items := pagination.Slice(all, w)

	return pagination.NewPage(items, page, pageSize, len(all)), nil
}

// window applies page defaults and the size cap, then validates.
func (s *Service) window(page, pageSize int) (int, int, pagination.Window, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		return 0, 0, pagination.Window{}, fmt.Errorf(
			"%w: pageSize must be <= %d, got %d", domain.ErrInvalidParameter, s.maxPageSize, pageSize,
		)
	}
	w, err := pagination.NewWindow(page, pageSize)
	if err != nil {
		return 0, 0, pagination.Window{}, err
	}
	return page, pageSize, w, nil
}
