package tracking

import (
	"context"

	"github.com/filinglab/edgardex/internal/domain"
)

// Store is the write-path storage contract.
type Store interface {
	TrackDocument(ctx context.Context, rec domain.DocumentRecord) error
	MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error
	SaveContent(ctx context.Context, url, content string) error
	Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error)
}
