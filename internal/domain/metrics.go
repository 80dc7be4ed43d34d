package domain

import (
	"sort"
	"strings"
	"time"
)

// CrawlMetrics aggregates processing state over a record set.
//
// Conservation holds by construction of the record state machine:
// Total = Processed + Unprocessed and Processed = Successful + Failed.
type CrawlMetrics struct {
	TotalDocuments       int
	ProcessedDocuments   int
	UnprocessedDocuments int
	SuccessfulDocuments  int
	FailedDocuments      int
	// SuccessRate is Successful/Processed, 0 when nothing is processed.
	SuccessRate       float64
	FormTypeCounts    map[FormType]int
	LastProcessedDate time.Time // zero when nothing is processed
}

// YearlyMetrics is CrawlMetrics grouped by filing year plus the distinct
// companies that filed in that year.
type YearlyMetrics struct {
	CrawlMetrics
	Year      int
	Companies []string
}

// CompanyMetrics pairs one company with its crawl metrics (breakdown view).
type CompanyMetrics struct {
	CrawlMetrics
	CompanyName string
}

// ComputeCrawlMetrics aggregates records into CrawlMetrics. Pure: callers
// pass a snapshot, nothing is mutated.
func ComputeCrawlMetrics(recs []DocumentRecord) CrawlMetrics {
	m := CrawlMetrics{FormTypeCounts: make(map[FormType]int)}
	for _, r := range recs {
		m.TotalDocuments++
		m.FormTypeCounts[r.form]++
		if !r.processed {
			m.UnprocessedDocuments++
			continue
		}
		m.ProcessedDocuments++
		if r.success {
			m.SuccessfulDocuments++
		} else {
			m.FailedDocuments++
		}
		if r.processedDate.After(m.LastProcessedDate) {
			m.LastProcessedDate = r.processedDate
		}
	}
	if m.ProcessedDocuments > 0 {
		m.SuccessRate = float64(m.SuccessfulDocuments) / float64(m.ProcessedDocuments)
	}
	return m
}

// ComputeYearlyMetrics groups records by filing year, newest year first.
func ComputeYearlyMetrics(recs []DocumentRecord) []YearlyMetrics {
	byYear := make(map[int][]DocumentRecord)
	for _, r := range recs {
		y := r.filingDate.Year()
		byYear[y] = append(byYear[y], r)
	}

	out := make([]YearlyMetrics, 0, len(byYear))
	for y, group := range byYear {
		out = append(out, YearlyMetrics{
			CrawlMetrics: ComputeCrawlMetrics(group),
			Year:         y,
			Companies:    distinctCompanies(group),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// ComputeCompanyBreakdown aggregates per distinct company (case-insensitive),
// largest document count first, ties by name.
func ComputeCompanyBreakdown(recs []DocumentRecord) []CompanyMetrics {
	byCompany := make(map[string][]DocumentRecord)
	display := make(map[string]string)
	for _, r := range recs {
		key := strings.ToLower(r.companyName)
		byCompany[key] = append(byCompany[key], r)
		if _, ok := display[key]; !ok {
			display[key] = r.companyName
		}
	}

	out := make([]CompanyMetrics, 0, len(byCompany))
	for key, group := range byCompany {
		out = append(out, CompanyMetrics{
			CrawlMetrics: ComputeCrawlMetrics(group),
			CompanyName:  display[key],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDocuments != out[j].TotalDocuments {
			return out[i].TotalDocuments > out[j].TotalDocuments
		}
		return out[i].CompanyName < out[j].CompanyName
	})
	return out
}

// CollectProcessingErrors extracts the failed-record views, most recent
// failure first.
func CollectProcessingErrors(recs []DocumentRecord) []ProcessingError {
	var out []ProcessingError
	for _, r := range recs {
		if pe, ok := r.ProcessingError(); ok {
			out = append(out, pe)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ErrorDate.After(out[j].ErrorDate)
	})
	return out
}

// distinctCompanies returns the unique company names in the group (first
// occurrence casing), sorted.
func distinctCompanies(recs []DocumentRecord) []string {
	seen := make(map[string]string)
	for _, r := range recs {
		key := strings.ToLower(r.companyName)
		if _, ok := seen[key]; !ok {
			seen[key] = r.companyName
		}
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
