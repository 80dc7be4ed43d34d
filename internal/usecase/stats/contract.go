package stats

import (
	"context"

	"github.com/filinglab/edgardex/internal/domain"
)

// MetricsReader aggregates processing state from the store.
type MetricsReader interface {
	CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error)
	ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error)
	YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error)
	CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error)
}

// RecordFinder reads the full ordered record set for the breakdown view.
type RecordFinder interface {
	FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error)
}
