package domain

import (
	"testing"
	"time"
)

// buildRecords returns a mixed snapshot: 2 successful, 1 failed, 2 unprocessed.
func buildRecords(t *testing.T) []DocumentRecord {
	t.Helper()
	mk := func(company string, form FormType, filed time.Time, url string) DocumentRecord {
		return mustRecord(t, company, form, filed, url)
	}

	a1, _ := mk("Apple Inc.", Form10K, date(2023, 11, 3), "https://x/a1").
		WithProcessed(true, "", time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	a2, _ := mk("Apple Inc.", Form10Q, date(2024, 2, 1), "https://x/a2").
		WithProcessed(true, "", time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC))
	m1, _ := mk("Microsoft Corp", Form8K, date(2024, 3, 1), "https://x/m1").
		WithProcessed(false, "HTTP 429", time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	m2 := mk("Microsoft Corp", Form10K, date(2023, 7, 27), "https://x/m2")
	t1 := mk("Tesla, Inc.", Form10K, date(2024, 1, 29), "https://x/t1")

	return []DocumentRecord{a1, a2, m1, m2, t1}
}

func TestComputeCrawlMetrics_Conservation(t *testing.T) {
	m := ComputeCrawlMetrics(buildRecords(t))

	if m.TotalDocuments != 5 {
		t.Errorf("TotalDocuments = %d, want 5", m.TotalDocuments)
	}
	if m.ProcessedDocuments+m.UnprocessedDocuments != m.TotalDocuments {
		t.Error("processed + unprocessed != total")
	}
	if m.SuccessfulDocuments+m.FailedDocuments != m.ProcessedDocuments {
		t.Error("successful + failed != processed")
	}
	if m.ProcessedDocuments != 3 || m.SuccessfulDocuments != 2 || m.FailedDocuments != 1 {
		t.Errorf("counts = %d/%d/%d", m.ProcessedDocuments, m.SuccessfulDocuments, m.FailedDocuments)
	}
}

func TestComputeCrawlMetrics_SuccessRate(t *testing.T) {
	m := ComputeCrawlMetrics(buildRecords(t))
	want := 2.0 / 3.0
	if m.SuccessRate < want-1e-9 || m.SuccessRate > want+1e-9 {
		t.Errorf("SuccessRate = %f, want %f", m.SuccessRate, want)
	}
	if m.SuccessRate < 0 || m.SuccessRate > 1 {
		t.Error("SuccessRate out of [0,1]")
	}
}

func TestComputeCrawlMetrics_EmptyAndUnprocessed(t *testing.T) {
	m := ComputeCrawlMetrics(nil)
	if m.TotalDocuments != 0 || m.SuccessRate != 0 {
		t.Errorf("empty metrics = %+v", m)
	}
	if !m.LastProcessedDate.IsZero() {
		t.Error("LastProcessedDate must be zero for empty input")
	}

	// Nothing processed: rate stays 0, no division by zero.
	only := []DocumentRecord{mustRecord(t, "Apple", Form10K, date(2024, 1, 1), "https://x/u")}
	m = ComputeCrawlMetrics(only)
	if m.SuccessRate != 0 {
		t.Errorf("SuccessRate = %f, want 0 when nothing processed", m.SuccessRate)
	}
}

func TestComputeCrawlMetrics_FormCountsAndLastProcessed(t *testing.T) {
	m := ComputeCrawlMetrics(buildRecords(t))

	if m.FormTypeCounts[Form10K] != 3 {
		t.Errorf("FormTypeCounts[10-K] = %d, want 3", m.FormTypeCounts[Form10K])
	}
	if m.FormTypeCounts[Form10Q] != 1 || m.FormTypeCounts[Form8K] != 1 {
		t.Errorf("FormTypeCounts = %v", m.FormTypeCounts)
	}
	want := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	if !m.LastProcessedDate.Equal(want) {
		t.Errorf("LastProcessedDate = %v, want %v", m.LastProcessedDate, want)
	}
}

func TestComputeYearlyMetrics(t *testing.T) {
	years := ComputeYearlyMetrics(buildRecords(t))

	if len(years) != 2 {
		t.Fatalf("got %d years, want 2", len(years))
	}
	if years[0].Year != 2024 || years[1].Year != 2023 {
		t.Errorf("year order = %d, %d; want 2024, 2023", years[0].Year, years[1].Year)
	}

	y2024 := years[0]
	if y2024.TotalDocuments != 3 {
		t.Errorf("2024 TotalDocuments = %d, want 3", y2024.TotalDocuments)
	}
	if len(y2024.Companies) != 2 {
		t.Errorf("2024 Companies = %v, want 2 distinct", y2024.Companies)
	}

	// Conservation holds inside every year group too.
	for _, y := range years {
		if y.ProcessedDocuments+y.UnprocessedDocuments != y.TotalDocuments {
			t.Errorf("year %d: conservation violated", y.Year)
		}
	}
}

func TestComputeCompanyBreakdown(t *testing.T) {
	breakdown := ComputeCompanyBreakdown(buildRecords(t))

	if len(breakdown) != 3 {
		t.Fatalf("got %d companies, want 3", len(breakdown))
	}
	// Apple and Microsoft both have 2 docs; ties order by name.
	if breakdown[0].CompanyName != "Apple Inc." || breakdown[1].CompanyName != "Microsoft Corp" {
		t.Errorf("order = %q, %q", breakdown[0].CompanyName, breakdown[1].CompanyName)
	}
	if breakdown[2].CompanyName != "Tesla, Inc." || breakdown[2].TotalDocuments != 1 {
		t.Errorf("last entry = %+v", breakdown[2])
	}
}

func TestComputeCompanyBreakdown_FoldsCase(t *testing.T) {
	recs := []DocumentRecord{
		mustRecord(t, "Apple Inc.", Form10K, date(2024, 1, 1), "https://x/1"),
		mustRecord(t, "APPLE INC.", Form10Q, date(2024, 2, 1), "https://x/2"),
	}
	breakdown := ComputeCompanyBreakdown(recs)
	if len(breakdown) != 1 {
		t.Fatalf("got %d companies, want 1 (case-insensitive grouping)", len(breakdown))
	}
	if breakdown[0].TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", breakdown[0].TotalDocuments)
	}
	if breakdown[0].CompanyName != "Apple Inc." {
		t.Errorf("display name = %q, want first-seen casing", breakdown[0].CompanyName)
	}
}

func TestCollectProcessingErrors(t *testing.T) {
	early, _ := mustRecord(t, "Apple", Form10K, date(2024, 1, 1), "https://x/e1").
		WithProcessed(false, "timeout", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	late, _ := mustRecord(t, "Tesla, Inc.", Form8K, date(2024, 1, 1), "https://x/e2").
		WithProcessed(false, "HTTP 500", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	ok, _ := mustRecord(t, "Apple", Form10Q, date(2024, 1, 1), "https://x/ok").
		WithProcessed(true, "", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))

	errs := CollectProcessingErrors([]DocumentRecord{early, ok, late})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].ErrorMessage != "HTTP 500" || errs[1].ErrorMessage != "timeout" {
		t.Errorf("order = %q, %q; want most recent first", errs[0].ErrorMessage, errs[1].ErrorMessage)
	}
}
