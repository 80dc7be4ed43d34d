package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	"github.com/filinglab/edgardex/internal/store"
)

// Content returns the stored text for a record id.
func (s *Store) Content(ctx context.Context, id string) (string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	data, err := s.do(ctx, s.b().Get().Key(s.contentKey(id)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", &store.Error{Op: store.OpContent, Err: domain.ErrNoContent}
		}
		return "", s.fail(store.OpContent, err)
	}
	return string(data), nil
}

// Unprocessed returns records awaiting processing, in insertion order.
func (s *Store) Unprocessed(ctx context.Context) ([]domain.DocumentRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	recs, err := s.scanRecords(ctx, store.OpUnprocessed)
	if err != nil {
		return nil, err
	}
	var out []domain.DocumentRecord
	for _, r := range recs {
		if !r.Processed() {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecords returns every record matching the filter, ordered by filing
// date descending.
func (s *Store) FindRecords(ctx context.Context, f domain.Filter) ([]domain.DocumentRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.find(ctx, f, store.OpFind)
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
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	recs, err := s.find(ctx, f, store.OpSearch)
	if err != nil {
		return nil, err
	}
	return pagination.Slice(recs, pagination.Window{Skip: skip, Take: take}), nil
}

func (s *Store) find(ctx context.Context, f domain.Filter, op string) ([]domain.DocumentRecord, error) {
	recs, err := s.scanRecords(ctx, op)
	if err != nil {
		return nil, err
	}
	recs = domain.FilterRecords(recs, f)
	domain.SortByFilingDateDesc(recs)
	return recs, nil
}

// CountSearchResults returns the total match count for the filter.
func (s *Store) CountSearchResults(ctx context.Context, f domain.Filter) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	recs, err := s.scanRecords(ctx, store.OpCount)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range recs {
		if f.Matches(r) {
			n++
		}
	}
	return n, nil
}

// CrawlMetrics aggregates processing state, optionally scoped to companies
// whose name contains companyName.
func (s *Store) CrawlMetrics(ctx context.Context, companyName string) (domain.CrawlMetrics, error) {
	recs, err := s.scoped(ctx, companyName, store.OpMetrics)
	if err != nil {
		return domain.CrawlMetrics{}, err
	}
	return domain.ComputeCrawlMetrics(recs), nil
}

// ProcessingErrors returns the failed-record views, most recent first.
func (s *Store) ProcessingErrors(ctx context.Context, companyName string) ([]domain.ProcessingError, error) {
	recs, err := s.scoped(ctx, companyName, store.OpErrors)
	if err != nil {
		return nil, err
	}
	return domain.CollectProcessingErrors(recs), nil
}

// YearlyMetrics groups metrics by filing year, newest first.
func (s *Store) YearlyMetrics(ctx context.Context) ([]domain.YearlyMetrics, error) {
	recs, err := s.scoped(ctx, "", store.OpYearly)
	if err != nil {
		return nil, err
	}
	return domain.ComputeYearlyMetrics(recs), nil
}

// CompanyYearlyMetrics is YearlyMetrics scoped to one company.
func (s *Store) CompanyYearlyMetrics(ctx context.Context, companyName string) ([]domain.YearlyMetrics, error) {
	recs, err := s.scoped(ctx, companyName, store.OpYearly)
	if err != nil {
		return nil, err
	}
	return domain.ComputeYearlyMetrics(recs), nil
}

func (s *Store) scoped(ctx context.Context, companyName, op string) ([]domain.DocumentRecord, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	recs, err := s.scanRecords(ctx, op)
	if err != nil {
		return nil, err
	}
	if companyName == "" {
		return recs, nil
	}
	return domain.FilterRecords(recs, domain.Filter{Company: companyName}), nil
}
