// Package tracking is the crawler-facing write path: discovered filings come
// in, processing outcomes and extracted text follow. All input validation
// happens here, before any storage call.
package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/domain"
)

// Service handles document tracking and outcome recording.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates a tracking service.
func New(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// TrackRequest carries one discovered filing.
type TrackRequest struct {
	CompanyName string
	Form        string
	FilingDate  time.Time
	URL         string
}

// TrackDocument validates the request and persists a new record. Tracking an
// already known URL is a no-op; either way the record id is returned.
func (s *Service) TrackDocument(ctx context.Context, req TrackRequest) (string, error) {
	form, err := domain.ParseForm(req.Form)
	if err != nil {
		return "", err
	}

	rec, err := domain.NewRecord(req.CompanyName, form, req.FilingDate, req.URL)
	if err != nil {
		return "", err
	}

	if err := s.store.TrackDocument(ctx, rec); err != nil {
		return "", fmt.Errorf("track document: %w", err)
	}

	s.logger.Debug("Document tracked",
		zap.String("id", rec.ID()),
		zap.String("company", rec.CompanyName()),
		zap.String("form", rec.Form().String()),
	)

	return rec.ID(), nil
}

// MarkProcessed records the processing outcome for a tracked URL. An unknown
// URL is tolerated silently by the store (the crawler may race a restart);
// the debug log below keeps such races diagnosable.
func (s *Service) MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidParameter)
	}
	if success && strings.TrimSpace(errorMessage) != "" {
		return fmt.Errorf("%w: error message not allowed on success", domain.ErrInvalidParameter)
	}

	if err := s.store.MarkProcessed(ctx, url, success, errorMessage); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	s.logger.Debug("Processing outcome recorded",
		zap.String("url", url),
		zap.Bool("success", success),
	)

	return nil
}

// SaveContent stores extracted document text for a tracked URL.
func (s *Service) SaveContent(ctx context.Context, url, content string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidParameter)
	}

	if err := s.store.SaveContent(ctx, url, content); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

// Unprocessed returns the records still awaiting processing, in insertion
// order.
func (s *Service) Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error) {
	recs, err := s.store.Unprocessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("unprocessed: %w", err)
	}
	return recs, nil
}
