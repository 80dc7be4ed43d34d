package edgardex

import (
	"context"
	"time"
)

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder struct {
	svc *SearchService

	// Content parameters.
	text          string
	exact         bool
	caseSensitive bool

	// Company parameters.
	company        string
	includeContent bool

	// Common parameters.
	forms     []string
	companies []string
	startDate time.Time
	endDate   time.Time
	page      int
	pageSize  int
}

// Find starts a fluent search query.
func (c *Client) Find() *SearchBuilder {
	return &SearchBuilder{svc: c.Search()}
}

// Text sets the content search term or phrase.
func (b *SearchBuilder) Text(q string) *SearchBuilder {
	b.text = q
	return b
}

// Exact requires the term to match as a whole phrase.
func (b *SearchBuilder) Exact() *SearchBuilder {
	b.exact = true
	return b
}

// CaseSensitive makes content matching case-sensitive.
func (b *SearchBuilder) CaseSensitive() *SearchBuilder {
	b.caseSensitive = true
	return b
}

// Company searches filings of companies whose name contains the given text
// (case-insensitive).
func (b *SearchBuilder) Company(name string) *SearchBuilder {
	b.company = name
	return b
}

// WithContent attaches stored document text to company search hits.
func (b *SearchBuilder) WithContent() *SearchBuilder {
	b.includeContent = true
	return b
}

// Companies restricts hits to the given exact company names.
func (b *SearchBuilder) Companies(names ...string) *SearchBuilder {
	b.companies = append(b.companies, names...)
	return b
}

// Forms restricts hits to the given SEC form codes.
func (b *SearchBuilder) Forms(codes ...string) *SearchBuilder {
	b.forms = append(b.forms, codes...)
	return b
}

// Between bounds the filing date range (inclusive). A zero bound is open.
func (b *SearchBuilder) Between(start, end time.Time) *SearchBuilder {
	b.startDate = start
	b.endDate = end
	return b
}

// Page selects the result page (1-based) and page size.
func (b *SearchBuilder) Page(page, size int) *SearchBuilder {
	b.page = page
	b.pageSize = size
	return b
}

// Do executes the query. A set Text runs a content search; otherwise a set
// Company runs a company search; otherwise the form/date criteria apply.
func (b *SearchBuilder) Do(ctx context.Context) (Page[SearchHit], error) {
	if b.text != "" {
		return b.doContent(ctx)
	}
	if b.company != "" {
		return b.doCompany(ctx)
	}
	return b.doFilings(ctx)
}

func (b *SearchBuilder) doContent(ctx context.Context) (Page[SearchHit], error) {
	return b.svc.Content(ctx, ContentQuery{
		Text:          b.text,
		Companies:     b.companies,
		Forms:         b.forms,
		StartDate:     b.startDate,
		EndDate:       b.endDate,
		ExactMatch:    b.exact,
		CaseSensitive: b.caseSensitive,
		Page:          b.page,
		PageSize:      b.pageSize,
	})
}

func (b *SearchBuilder) doCompany(ctx context.Context) (Page[SearchHit], error) {
	return b.svc.Company(ctx, CompanyQuery{
		CompanyName:    b.company,
		Forms:          b.forms,
		StartDate:      b.startDate,
		EndDate:        b.endDate,
		IncludeContent: b.includeContent,
		Page:           b.page,
		PageSize:       b.pageSize,
	})
}

func (b *SearchBuilder) doFilings(ctx context.Context) (Page[SearchHit], error) {
	return b.svc.Filings(ctx, FilingQuery{
		Forms:     b.forms,
		Companies: b.companies,
		StartDate: b.startDate,
		EndDate:   b.endDate,
		Page:      b.page,
		PageSize:  b.pageSize,
	})
}
