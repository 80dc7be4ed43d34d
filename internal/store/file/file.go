// Package file implements the store contract over a local data directory.
//
// Layout: documents.json holds record identities plus the insertion
// sequence high-water mark, outcomes.json holds processing outcomes keyed
// by record id, content/<id>.txt holds extracted document text. Both tables
// are rewritten atomically (temp file + rename) on every mutation; an
// in-memory mirror guarded by one RWMutex serves all reads, so query
// behavior matches the memory backend exactly.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	"github.com/filinglab/edgardex/internal/store"
)

// Compile-time check: Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Config holds the parameters for a file-backed store.
type Config struct {
	// Dir is the data directory; created on Initialize when missing.
	Dir string
	// Now overrides the clock stamping processing outcomes. Defaults to
	// time.Now.
	Now func() time.Time
	// Watch reloads the mirror when the data files change on disk, for
	// setups where a second process appends to the same directory.
	Watch bool
	// Debounce delays a watch-triggered reload so write bursts coalesce.
	Debounce time.Duration
	// Logger receives watcher diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// Store implements store.Store over JSON tables in a directory.
type Store struct {
	dir      string
	now      func() time.Time
	log      *zap.Logger
	watch    bool
	debounce time.Duration

	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
	seq     int64

	watcher  *watcher
	initOnce sync.Once
}

// NewStore creates a file-backed store. Nothing touches the disk until
// Initialize.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = 250 * time.Millisecond
	}
	return &Store{
		dir:      cfg.Dir,
		now:      now,
		log:      log,
		watch:    cfg.Watch,
		debounce: debounce,
		records:  make(map[string]domain.DocumentRecord),
	}, nil
}

// Initialize creates the data directory, loads both tables into the mirror
// and starts the optional change watcher.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(s.contentDir(), 0o755); err != nil {
		return s.fail(store.OpInitialize, err)
	}

	s.mu.Lock()
	err := s.loadLocked()
	s.mu.Unlock()
	if err != nil {
		return s.fail(store.OpInitialize, err)
	}

	if s.watch {
		var werr error
		s.initOnce.Do(func() {
			s.watcher, werr = newWatcher(s)
		})
		if werr != nil {
			return s.fail(store.OpInitialize, werr)
		}
	}
	return nil
}

// TrackDocument stores the record unless its URL is already tracked.
func (s *Store) TrackDocument(ctx context.Context, rec domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID()]; ok {
		return nil
	}
	s.seq++
	s.records[rec.ID()] = rec.WithSequence(s.seq)
	if err := s.saveDocumentsLocked(); err != nil {
		delete(s.records, rec.ID())
		s.seq--
		return s.fail(store.OpTrack, err)
	}
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
	upd, changed := rec.WithProcessed(success, errorMessage, s.now())
	if !changed {
		return nil
	}
	s.records[id] = upd
	if err := s.saveOutcomesLocked(); err != nil {
		s.records[id] = rec
		return s.fail(store.OpMarkProcessed, err)
	}
	return nil
}

// SaveContent stores extracted text for a tracked URL; unknown URLs are a
// silent no-op.
func (s *Store) SaveContent(ctx context.Context, url, content string) error {
	id := domain.RecordID(url)

	s.mu.RLock()
	_, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := writeAtomic(s.contentPath(id), []byte(content)); err != nil {
		return s.fail(store.OpSaveContent, err)
	}
	return nil
}

// Content returns the stored text for a record id.
func (s *Store) Content(ctx context.Context, id string) (string, error) {
	data, err := os.ReadFile(s.contentPath(id))
	if os.IsNotExist(err) {
		return "", &store.Error{Op: store.OpContent, Err: domain.ErrNoContent}
	}
	if err != nil {
		return "", s.fail(store.OpContent, err)
	}
	return string(data), nil
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

// Healthy reports whether the data directory is reachable.
func (s *Store) Healthy(ctx context.Context) bool {
	_, err := os.Stat(s.dir)
	return err == nil
}

// Close stops the change watcher, if any.
func (s *Store) Close() error {
	if s.watcher != nil {
		s.watcher.stop()
	}
	return nil
}

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

// fail annotates a disk failure; the unavailability sentinel stays
// reachable through the chain.
func (s *Store) fail(op string, err error) error {
	return &store.Error{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)}
}

func (s *Store) documentsPath() string { return filepath.Join(s.dir, "documents.json") }

func (s *Store) outcomesPath() string { return filepath.Join(s.dir, "outcomes.json") }

func (s *Store) contentDir() string { return filepath.Join(s.dir, "content") }

func (s *Store) contentPath(id string) string { return filepath.Join(s.contentDir(), id+".txt") }
