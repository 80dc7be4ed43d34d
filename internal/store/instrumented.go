package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/metrics"
)

// Operation outcome labels for store metrics.
const (
	statusOK       = "ok"
	statusError    = "error"
	statusNotFound = "not_found"
)

// Instrumented wraps a Store with Prometheus metrics and logging. Every
// delegated call is timed and counted under the configured driver label; the
// wrapped store stays unaware of observability.
type Instrumented struct {
	inner  Store
	driver string
	logger *zap.Logger
}

var _ Store = (*Instrumented)(nil)

// NewInstrumented wraps a store with per-operation observability.
func NewInstrumented(inner Store, driver string, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{
		inner:  inner,
		driver: driver,
		logger: logger,
	}
}

func (s *Instrumented) Initialize(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Initialize(ctx)
	s.observe(OpInitialize, start, err)
	return err
}

func (s *Instrumented) TrackDocument(ctx context.Context, rec domain.DocumentRecord) error {
	start := time.Now()
	err := s.inner.TrackDocument(ctx, rec)
	s.observe(OpTrack, start, err)
	if err == nil {
		metrics.StoreDocumentsTracked.WithLabelValues(s.driver).Inc()
	}
	return err
}

func (s *Instrumented) MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error {
	start := time.Now()
	err := s.inner.MarkProcessed(ctx, url, success, errorMessage)
	s.observe(OpMarkProcessed, start, err)
	return err
}

func (s *Instrumented) SaveContent(ctx context.Context, url, content string) error {
	start := time.Now()
	err := s.inner.SaveContent(ctx, url, content)
	s.observe(OpSaveContent, start, err)
	return err
}

func (s *Instrumented) Content(ctx context.Context, id string) (string, error) {
	start := time.Now()
	text, err := s.inner.Content(ctx, id)
	s.observe(OpContent, start, err)
	return text, err
}

func (s *Instrumented) Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error) {
	start := time.Now()
	recs, err := s.inner.Unprocessed(ctx)
	s.observe(OpUnprocessed, start, err)
	return recs, err
}

func (s *Instrumented) FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error) {
	start := time.Now()
	recs, err := s.inner.FindRecords(ctx, f)
	s.observe(OpFind, start, err)
	return recs, err
}

func (s *Instrumented) SearchByCompany(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error) {
	start := time.Now()
	recs, err := s.inner.SearchByCompany(ctx, f, skip, take)
	s.observe(OpSearch, start, err)
	return recs, err
}

func (s *Instrumented) SearchByFormType(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error) {
	start := time.Now()
	recs, err := s.inner.SearchByFormType(ctx, f, skip, take)
	s.observe(OpSearch, start, err)
	return recs, err
}

func (s *Instrumented) CountSearchResults(ctx context.Context, f domain.Filter) (int, error) {
	start := time.Now()
	n, err := s.inner.CountSearchResults(ctx, f)
	s.observe(OpCount, start, err)
	return n, err
}

func (s *Instrumented) CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error) {
	start := time.Now()
	m, err := s.inner.CrawlMetrics(ctx, companyName)
	s.observe(OpMetrics, start, err)
	return m, err
}

func (s *Instrumented) ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error) {
	start := time.Now()
	errs, err := s.inner.ProcessingErrors(ctx, companyName)
	s.observe(OpErrors, start, err)
	return errs, err
}

func (s *Instrumented) YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error) {
	start := time.Now()
	years, err := s.inner.YearlyMetrics(ctx)
	s.observe(OpYearly, start, err)
	return years, err
}

func (s *Instrumented) CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error) {
	start := time.Now()
	years, err := s.inner.CompanyYearlyMetrics(ctx, companyName)
	s.observe(OpYearly, start, err)
	return years, err
}

func (s *Instrumented) Healthy(ctx context.Context) bool {
	healthy := s.inner.Healthy(ctx)
	up := 0.0
	if healthy {
		up = 1
	}
	metrics.StoreHealthy.WithLabelValues(s.driver).Set(up)
	return healthy
}

func (s *Instrumented) Close() error {
	start := time.Now()
	err := s.inner.Close()
	s.observe(OpClose, start, err)
	return err
}

// observe пишет метрики и лог для одной операции.
func (s *Instrumented) observe(op string, start time.Time, err error) {
	duration := time.Since(start)

	status := statusOK
	switch {
	case err == nil:
		s.logger.Debug("Store operation completed",
			zap.String("driver", s.driver),
			zap.String("operation", op),
			zap.Duration("duration", duration),
		)
	case errors.Is(err, domain.ErrNoContent):
		// Missing content is an expected outcome, not a failure.
		status = statusNotFound
		s.logger.Debug("Store lookup found nothing",
			zap.String("driver", s.driver),
			zap.String("operation", op),
			zap.Duration("duration", duration),
		)
	default:
		status = statusError
		s.logger.Error("Store operation failed",
			zap.String("driver", s.driver),
			zap.String("operation", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}

	metrics.StoreOperationsTotal.WithLabelValues(s.driver, op, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(s.driver, op).Observe(duration.Seconds())
}
