package edgardex

import (
	"time"

	"github.com/filinglab/edgardex/internal/pagination"
)

// Filing is one discovered SEC filing to track.
type Filing struct {
	CompanyName string
	Form        string
	FilingDate  time.Time
	URL         string
}

// Document is the public view of a tracked filing.
type Document struct {
	ID            string
	CompanyName   string
	Form          string
	FilingDate    time.Time
	URL           string
	Processed     bool
	Success       bool
	ErrorMessage  string
	ProcessedDate time.Time // zero while unprocessed
}

// SearchHit is a single search result. RelevanceScore is 1.0 for company
// and filing searches; content search scores by term occurrences and fills
// Highlights.
type SearchHit struct {
	ID             string
	CompanyName    string
	Form           string
	FilingDate     time.Time
	URL            string
	Processed      bool
	Success        bool
	RelevanceScore float64
	Highlights     []string
	Content        string
}

// Page is one page of results plus derived paging metadata.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	PageNumber  int
	PageSize    int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

// CrawlStats aggregates processing state over the tracked set.
// TotalDocuments = Processed + Unprocessed; Processed = Successful + Failed.
type CrawlStats struct {
	TotalDocuments       int
	ProcessedDocuments   int
	UnprocessedDocuments int
	SuccessfulDocuments  int
	FailedDocuments      int
	SuccessRate          float64
	FormTypeCounts       map[string]int
	LastProcessedDate    time.Time // zero when nothing is processed
}

// YearlyStats is CrawlStats grouped by filing year plus the distinct
// companies that filed in that year.
type YearlyStats struct {
	CrawlStats
	Year      int
	Companies []string
}

// CompanyStats pairs one company with its crawl stats.
type CompanyStats struct {
	CrawlStats
	CompanyName string
}

// ProcessingFailure describes one document that failed processing.
type ProcessingFailure struct {
	CompanyName  string
	Form         string
	URL          string
	ErrorMessage string
	ErrorDate    time.Time
}

// mapPage projects an internal page into the public envelope.
func mapPage[U, V any](p pagination.Page[U], fn func(U) V) Page[V] {
	items := make([]V, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[V]{
		Items:       items,
		TotalCount:  p.TotalCount,
		PageNumber:  p.PageNumber,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}
