// Package store defines the persistence contract shared by every backend.
//
// Three implementations exist — memory, file and redis — and they must be
// observably interchangeable: same ordering, same idempotency, same error
// taxonomy. Consumers depend on the narrow sub-interfaces, the composition
// root wires a concrete Store.
package store

import (
	"context"

	"github.com/filinglab/edgardex/internal/domain"
)

// Store is the full persistence facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Tracker
	ContentStore
	Searcher
	MetricsReader
	Initialize(ctx context.Context) error
	Healthy(ctx context.Context) bool
	Close() error
}

// Tracker is the crawler-facing write path.
type Tracker interface {
	// TrackDocument persists a record. Tracking the same URL twice is a
	// no-op: the first record wins and nothing is overwritten.
	TrackDocument(ctx context.Context, rec domain.DocumentRecord) error
	// MarkProcessed records the processing outcome for the record with the
	// given URL. Unknown URLs are a silent no-op, as is a second call for
	// an already processed record.
	MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error
	// Unprocessed returns the records still awaiting processing, in
	// insertion order.
	Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error)
}

// ContentStore persists extracted document text for content search.
type ContentStore interface {
	// SaveContent stores extracted text for the record with the given URL.
	// Unknown URLs are a silent no-op, mirroring MarkProcessed.
	SaveContent(ctx context.Context, url, content string) error
	// Content returns the stored text for a record id; ErrNoContent when
	// none was saved.
	Content(ctx context.Context, id string) (string, error)
}

// Searcher provides filtered, ordered record retrieval. Results are always
// ordered by filing date descending, insertion order breaking ties.
type Searcher interface {
	// FindRecords returns every record matching the filter, ordered.
	FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error)
	// SearchByCompany returns one page of records matching the filter's
	// company criteria, ordered.
	SearchByCompany(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error)
	// SearchByFormType returns one page of records matching the filter's
	// form and date criteria, ordered.
	SearchByFormType(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error)
	// CountSearchResults returns the total match count for the filter.
	CountSearchResults(ctx context.Context, f domain.Filter) (int, error)
}

// MetricsReader aggregates processing state. companyName scopes by
// case-insensitive substring; blank means all records.
type MetricsReader interface {
	CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error)
	ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error)
	YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error)
	CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error)
}
