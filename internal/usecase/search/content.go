package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/pagination"
)

// ContentRequest searches stored document text for a term or phrase.
type ContentRequest struct {
	SearchText    string
	Companies     []string
	FormTypes     []string
	StartDate     time.Time
	EndDate       time.Time
	ExactMatch    bool
	CaseSensitive bool
	Page          int
	PageSize      int
}

// ContentSearch ranks stored document text against the search term and
// returns one relevance-ordered page. The whole candidate set is scored
// before paging, so the ordering is global, not per page.
func (s *Service) ContentSearch(ctx context.Context, req ContentRequest) (pagination.Page[Result], error) {
	term := strings.TrimSpace(req.SearchText)
	if term == "" {
		return pagination.Page[Result]{}, fmt.Errorf("%w: search text is required", domain.ErrInvalidParameter)
	}

	forms, err := domain.ParseForms(req.FormTypes)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	page, size, w, err := s.window(req.Page, req.PageSize, s.maxContentPageSize)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	f := domain.Filter{Companies: req.Companies, Forms: forms, Since: req.StartDate, Until: req.EndDate}

	recs, err := s.finder.FindRecords(ctx, f)
	if err != nil {
		return pagination.Page[Result]{}, fmt.Errorf("find records: %w", err)
	}

	matches, err := s.scoreRecords(ctx, recs, term, req.ExactMatch, req.CaseSensitive)
	if err != nil {
		return pagination.Page[Result]{}, err
	}

	// Candidates arrive filing-date ordered; the stable sort keeps that
	// order within equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})

	total := len(matches)
	items := pagination.Slice(matches, w)

	return pagination.NewPage(items, page, size, total), nil
}

// scoreRecords loads stored text for each candidate and keeps the matches.
// A document without stored content cannot match.
func (s *Service) scoreRecords(
	ctx context.Context, recs []domain.DocumentRecord,
	term string, exactMatch, caseSensitive bool,
) ([]Result, error) {
	var out []Result
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("content search canceled: %w", err)
		}

		text, err := s.content.Content(ctx, rec.ID())
		if errors.Is(err, domain.ErrNoContent) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}

		m, ok := s.scorer.Match(text, term, exactMatch, caseSensitive)
		if !ok {
			continue
		}

		r := newResult(rec)
		r.RelevanceScore = m.Score
		r.Highlights = m.Highlights
		out = append(out, r)
	}
	return out, nil
}
