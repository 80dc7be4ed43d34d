// Package search orchestrates store queries into paged, ordered result sets:
// company search, form/date filtering, and relevance-ranked content search.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
	"github.com/filinglab/edgardex/internal/relevance"
)

// Page-size policy. Content search pages are smaller because every hit may
// carry highlight snippets.
const (
	DefaultPageSize    = 50
	MaxPageSize        = 1000
	MaxContentPageSize = 100
)

// Service handles company, form and content search.
type Service struct {
	searcher Searcher
	finder   RecordFinder
	content  ContentReader
	scorer   *relevance.Scorer

	defaultPageSize    int
	maxPageSize        int
	maxContentPageSize int
}

// New creates a search service with the default relevance configuration.
func New(searcher Searcher, finder RecordFinder, content ContentReader) *Service {
	return &Service{
		searcher: searcher,
		finder:   finder,
		content:  content,
		scorer:   relevance.NewScorer(relevance.DefaultConfig()),

		defaultPageSize:    DefaultPageSize,
		maxPageSize:        MaxPageSize,
		maxContentPageSize: MaxContentPageSize,
	}
}

// WithScorer overrides the relevance scorer.
func (s *Service) WithScorer(sc *relevance.Scorer) *Service {
	if sc != nil {
		s.scorer = sc
	}
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize, maxContentPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	if maxContentPageSize > 0 {
		s.maxContentPageSize = maxContentPageSize
	}
	return s
}

// Result is one search hit: the record projection plus relevance.
type Result struct {
	ID             string
	CompanyName    string
	Form           domain.FormType
	FilingDate     time.Time
	URL            string
	Processed      bool
	Success        bool
	RelevanceScore float64
	Highlights     []string
	Content        string
}

// CompanyRequest searches filings of companies whose name contains the given
// text (case-insensitive).
type CompanyRequest struct {
	CompanyName    string
	FormTypes      []string
	StartDate      time.Time
	EndDate        time.Time
	IncludeContent bool
	Page           int
	PageSize       int
}

// FormRequest filters filings by form codes, optional exact company names and
// an inclusive date range. An empty form list means all known forms.
type FormRequest struct {
	FormTypes []string
	Companies []string
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// CompanySearch returns one page of a company's filings, newest first.
func (s *Service) CompanySearch(ctx context.Context, req CompanyRequest) (pagination.Page[Result], error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return pagination.Page[Result]{}, fmt.Errorf("%w: company name is required", domain.ErrInvalidParameter)
	}

	forms, err := domain.ParseForms(req.FormTypes)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	page, size, w, err := s.window(req.Page, req.PageSize, s.maxPageSize)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	f := domain.Filter{Company: name, Forms: forms, Since: req.StartDate, Until: req.EndDate}

	recs, total, err := s.fetch(ctx, f, w, s.searcher.SearchByCompany)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	results := projectRecords(recs)
	if req.IncludeContent {
		if err := s.attachContent(ctx, results); err != nil {
			return pagination.Page[Result]{}, err
		}
	}

	return pagination.NewPage(results, page, size, total), nil
}

// FormSearch returns one page of filings matching the form/date criteria,
// newest first.
func (s *Service) FormSearch(ctx context.Context, req FormRequest) (pagination.Page[Result], error) {
	forms, err := domain.ParseForms(req.FormTypes)
	if err != nil {
		return pagination.Page[Result]{}, err
	}
	if len(forms) == 0 {
		// Empty form set means "all known forms".
		forms = domain.KnownForms()
	}

	page, size, w, err := s.window(req.Page, req.PageSize, s.maxPageSize)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	f := domain.Filter{Companies: req.Companies, Forms: forms, Since: req.StartDate, Until: req.EndDate}

	recs, total, err := s.fetch(ctx, f, w, s.searcher.SearchByFormType)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	return pagination.NewPage(projectRecords(recs), page, size, total), nil
}

// window applies page defaults and the size cap, then validates.
func (s *Service) window(page, pageSize, maxSize int) (int, int, pagination.Window, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > maxSize {
		return 0, 0, pagination.Window{}, fmt.Errorf(
			"%w: pageSize must be <= %d, got %d", domain.ErrInvalidParameter, maxSize, pageSize,
		)
	}
	w, err := pagination.NewWindow(page, pageSize)
	if err != nil {
		return 0, 0, pagination.Window{}, err
	}
	return page, pageSize, w, nil
}

// fetch runs the page query and the total count in parallel.
func (s *Service) fetch(
	ctx context.Context, f domain.Filter, w pagination.Window,
	query func(context.Context, domain.Filter, int, int) ([]domain.DocumentRecord, error),
) ([]domain.DocumentRecord, int, error) {
	var (
		recs  []domain.DocumentRecord
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = query(gctx, f, w.Skip, w.Take)
		if err != nil {
			return fmt.Errorf("search records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.searcher.CountSearchResults(gctx, f)
		if err != nil {
			return fmt.Errorf("count results: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return recs, total, nil
}

// attachContent loads stored text for each hit. Documents without stored
// content simply keep an empty Content field.
func (s *Service) attachContent(ctx context.Context, results []Result) error {
	for i := range results {
		text, err := s.content.Content(ctx, results[i].ID)
		if errors.Is(err, domain.ErrNoContent) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load content: %w", err)
		}
		results[i].Content = text
	}
	return nil
}

// newResult projects a record into a search hit. Company and form search use
// a uniform relevance of 1.0 and no highlights.
func newResult(r domain.DocumentRecord) Result {
	return Result{
		ID:             r.ID(),
		CompanyName:    r.CompanyName(),
		Form:           r.Form(),
		FilingDate:     r.FilingDate(),
		URL:            r.URL(),
		Processed:      r.Processed(),
		Success:        r.Success(),
		RelevanceScore: 1.0,
	}
}

func projectRecords(recs []domain.DocumentRecord) []Result {
	out := make([]Result, 0, len(recs))
	for _, r := range recs {
		out = append(out, newResult(r))
	}
	return out
}
