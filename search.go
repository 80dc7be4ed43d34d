package edgardex

import (
	"context"
	"time"

	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
)

// SearchService queries tracked filings. Three query shapes exist: by
// company name, by form/date criteria, and by stored document text.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// CompanyQuery searches filings of companies whose name contains the given
// text (case-insensitive). Results are newest first.
type CompanyQuery struct {
	CompanyName    string
	Forms          []string
	StartDate      time.Time
	EndDate        time.Time
	IncludeContent bool
	Page           int
	PageSize       int
}

// FilingQuery filters filings by SEC form codes, optional exact company
// names and an inclusive date range. An empty form list means all known
// forms. Results are newest first.
type FilingQuery struct {
	Forms     []string
	Companies []string
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// ContentQuery searches stored document text for a term or phrase. Results
// are relevance-ordered; each hit carries highlight snippets.
type ContentQuery struct {
	Text          string
	Companies     []string
	Forms         []string
	StartDate     time.Time
	EndDate       time.Time
	ExactMatch    bool
	CaseSensitive bool
	Page          int
	PageSize      int
}

// Company returns one page of a company's filings.
func (s *SearchService) Company(ctx context.Context, q CompanyQuery) (_ Page[SearchHit], err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.company", start, err) }()

	page, err := s.svc.CompanySearch(ctx, searchuc.CompanyRequest{
		CompanyName:    q.CompanyName,
		FormTypes:      q.Forms,
		StartDate:      q.StartDate,
		EndDate:        q.EndDate,
		IncludeContent: q.IncludeContent,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return Page[SearchHit]{}, err
	}
	return mapPage(page, fromResult), nil
}

// Filings returns one page of filings matching the form/date criteria.
func (s *SearchService) Filings(ctx context.Context, q FilingQuery) (_ Page[SearchHit], err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.filings", start, err) }()

	page, err := s.svc.FormSearch(ctx, searchuc.FormRequest{
		FormTypes: q.Forms,
		Companies: q.Companies,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		return Page[SearchHit]{}, err
	}
	return mapPage(page, fromResult), nil
}

// Content returns one page of documents whose stored text matches the term,
// best match first.
func (s *SearchService) Content(ctx context.Context, q ContentQuery) (_ Page[SearchHit], err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.content", start, err) }()

	page, err := s.svc.ContentSearch(ctx, searchuc.ContentRequest{
		SearchText:    q.Text,
		Companies:     q.Companies,
		FormTypes:     q.Forms,
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		ExactMatch:    q.ExactMatch,
		CaseSensitive: q.CaseSensitive,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		return Page[SearchHit]{}, err
	}
	return mapPage(page, fromResult), nil
}

func fromResult(r searchuc.Result) SearchHit {
	return SearchHit{
		ID:             r.ID,
		CompanyName:    r.CompanyName,
		Form:           r.Form.String(),
		FilingDate:     r.FilingDate,
		URL:            r.URL,
		Processed:      r.Processed,
		Success:        r.Success,
		RelevanceScore: r.RelevanceScore,
		Highlights:     r.Highlights,
		Content:        r.Content,
	}
}
