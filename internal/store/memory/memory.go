// Package memory implements the store contract over process memory.
//
// It is the reference backend: the file and redis backends must behave
// identically for every operation. A single RWMutex guards the tables;
// reads copy a snapshot under RLock and do all filtering and aggregation
// after releasing it, so slow queries never block writers.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	"github.com/filinglab/edgardex/internal/store"
)

// Compile-time check: Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Config holds optional knobs for an in-memory store.
type Config struct {
	// Now overrides the clock stamping processing outcomes. Defaults to
	// time.Now.
	Now func() time.Time
}

// Store implements store.Store over maps guarded by one RWMutex.
type Store struct {
	now func() time.Time

	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
	content map[string]string
	seq     int64
}

// NewStore creates an empty in-memory store.
func NewStore(cfg Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:     now,
		records: make(map[string]domain.DocumentRecord),
		content: make(map[string]string),
	}
}

// Initialize is a no-op; the store is ready once constructed.
func (s *Store) Initialize(ctx context.Context) error { return nil }

// TrackDocument stores the record unless its URL is already tracked.
func (s *Store) TrackDocument(ctx context.Context, rec domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID()]; ok {
		return nil
	}
	s.seq++
	s.records[rec.ID()] = rec.WithSequence(s.seq)
	return nil
}

// MarkProcessed records the outcome for the record with the given URL.
// Unknown URLs and already processed records change nothing.
func (s *Store) MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.RecordID(url)
	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	if upd, changed := rec.WithProcessed(success, errorMessage, s.now()); changed {
		s.records[id] = upd
	}
	return nil
}

// SaveContent stores extracted text for a tracked URL; unknown URLs are a
// silent no-op.
func (s *Store) SaveContent(ctx context.Context, url, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.RecordID(url)
	if _, ok := s.records[id]; !ok {
		return nil
	}
	s.content[id] = content
	return nil
}

// Content returns the stored text for a record id.
func (s *Store) Content(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	text, ok := s.content[id]
	s.mu.RUnlock()

	if !ok {
		return "", &store.Error{Op: store.OpContent, Err: domain.ErrNoContent}
	}
	return text, nil
}

// Unprocessed returns records awaiting processing, in insertion order.
func (s *Store) Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, r := range s.snapshot() {
		if !r.Processed() {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecords returns every record matching the filter, ordered by filing
// date descending.
func (s *Store) FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error) {
	recs := domain.FilterRecords(s.snapshot(), f)
	domain.SortByFilingDateDesc(recs)
	return recs, nil
}

// SearchByCompany returns one ordered page of matching records.
func (s *Store) SearchByCompany(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error) {
	return s.page(ctx, f, skip, take)
}

// SearchByFormType returns one ordered page of matching records.
func (s *Store) SearchByFormType(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error) {
	return s.page(ctx, f, skip, take)
}

func (s *Store) page(ctx context.Context, f domain.Filter, skip, take int) ([]domain.DocumentRecord, error) {
	recs, err := s.FindRecords(ctx, f)
	if err != nil {
		return nil, err
	}
	return pagination.Slice(recs, pagination.Window{Skip: skip, Take: take}), nil
}

// CountSearchResults returns the total match count for the filter.
func (s *Store) CountSearchResults(ctx context.Context, f domain.Filter) (int, error) {
	n := 0
	for _, r := range s.snapshot() {
		if f.Matches(r) {
			n++
		}
	}
	return n, nil
}

// CrawlMetrics aggregates processing state, optionally scoped to companies
// whose name contains companyName.
func (s *Store) CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error) {
	return domain.ComputeCrawlMetrics(s.scoped(companyName)), nil
}

// ProcessingErrors returns the failed-record views, most recent first.
func (s *Store) ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error) {
	return domain.CollectProcessingErrors(s.scoped(companyName)), nil
}

// YearlyMetrics groups metrics by filing year, newest first.
func (s *Store) YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error) {
	return domain.ComputeYearlyMetrics(s.snapshot()), nil
}

// CompanyYearlyMetrics is YearlyMetrics scoped to one company.
func (s *Store) CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error) {
	return domain.ComputeYearlyMetrics(s.scoped(companyName)), nil
}

// Healthy always reports true; process memory cannot be unreachable.
func (s *Store) Healthy(ctx context.Context) bool { return true }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// snapshot copies all records under RLock and returns them in insertion
// order. Callers own the slice.
func (s *Store) snapshot() []domain.DocumentRecord {
	s.mu.RLock()
	recs := make([]domain.DocumentRecord, 0, len(s.records))
	for _, r := range s.records {
		recs = append(recs, r)
	}
	s.mu.RUnlock()

	domain.SortByInsertion(recs)
	return recs
}

func (s *Store) scoped(companyName string) []domain.DocumentRecord {
	recs := s.snapshot()
	if companyName == "" {
		return recs
	}
	return domain.FilterRecords(recs, domain.Filter{Company: companyName})
}
