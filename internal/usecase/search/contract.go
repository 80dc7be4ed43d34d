package search

import (
	"context"

	"github.com/filinglab/edgardex/internal/domain"
)

// Searcher is the paged record search contract.
type Searcher interface {
	SearchByCompany(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error)
	SearchByFormType(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error)
	CountSearchResults(ctx context.Context, f domain.Filter) (int, error)
}

// RecordFinder returns the full ordered match set (content search ranks it
// before paging).
type RecordFinder interface {
	FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error)
}

// ContentReader loads extracted document text.
type ContentReader interface {
	Content(ctx context.Context, id string) (string, error)
}
