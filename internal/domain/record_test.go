package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID("https://www.sec.gov/Archives/edgar/data/320193/a.htm")
	b := RecordID("https://www.sec.gov/Archives/edgar/data/320193/a.htm")
	if a != b {
		t.Errorf("same URL produced different ids: %q vs %q", a, b)
	}
	if a == RecordID("https://www.sec.gov/Archives/edgar/data/320193/b.htm") {
		t.Error("different URLs produced the same id")
	}
	if len(a) != 64 {
		t.Errorf("id length = %d, want 64 hex chars", len(a))
	}
}

func TestNewRecord_Valid(t *testing.T) {
	r, err := NewRecord("Apple Inc.", Form10K, date(2024, 11, 1), "https://sec.gov/a10k.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != RecordID("https://sec.gov/a10k.htm") {
		t.Errorf("ID() = %q, want URL hash", r.ID())
	}
	if r.CompanyName() != "Apple Inc." {
		t.Errorf("CompanyName() = %q", r.CompanyName())
	}
	if r.Form() != Form10K {
		t.Errorf("Form() = %q", r.Form())
	}
	if r.Processed() {
		t.Error("new record must start unprocessed")
	}
	if !r.ProcessedDate().IsZero() {
		t.Error("ProcessedDate() must be zero while unprocessed")
	}
}

func TestNewRecord_TruncatesFilingDate(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	r, err := NewRecord("Apple Inc.", Form10K,
		time.Date(2024, 11, 1, 18, 30, 12, 0, loc), "https://sec.gov/a.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 18:30 EST is 23:30 UTC the same day.
	if !r.FilingDate().Equal(date(2024, 11, 1)) {
		t.Errorf("FilingDate() = %v, want 2024-11-01 UTC", r.FilingDate())
	}
}

func TestNewRecord_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		company string
		form    FormType
		filed   time.Time
		url     string
	}{
		{"blank company", "   ", Form10K, date(2024, 1, 1), "https://x"},
		{"unknown form", "Apple", FormType("99-Z"), date(2024, 1, 1), "https://x"},
		{"zero date", "Apple", Form10K, time.Time{}, "https://x"},
		{"blank url", "Apple", Form10K, date(2024, 1, 1), "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecord(tc.company, tc.form, tc.filed, tc.url)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestNewRecord_UnknownFormIsInvalidParameter(t *testing.T) {
	_, err := NewRecord("Apple", FormType("weird"), date(2024, 1, 1), "https://x")
	if !errors.Is(err, ErrUnknownForm) {
		t.Fatalf("error = %v, want ErrUnknownForm", err)
	}
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("ErrUnknownForm must also match ErrInvalidParameter")
	}
}

func TestWithProcessed_Transition(t *testing.T) {
	r, _ := NewRecord("Apple", Form10K, date(2024, 1, 1), "https://x")
	at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	r2, changed := r.WithProcessed(false, "HTTP 429", at)
	if !changed {
		t.Fatal("first WithProcessed must report a transition")
	}
	if !r2.Processed() || r2.Success() {
		t.Error("record should be processed and failed")
	}
	if r2.ErrorMessage() != "HTTP 429" {
		t.Errorf("ErrorMessage() = %q", r2.ErrorMessage())
	}
	if !r2.ProcessedDate().Equal(at) {
		t.Errorf("ProcessedDate() = %v, want %v", r2.ProcessedDate(), at)
	}
	if r.Processed() {
		t.Error("original value must stay unprocessed")
	}
}

func TestWithProcessed_Terminal(t *testing.T) {
	r, _ := NewRecord("Apple", Form10K, date(2024, 1, 1), "https://x")
	r, _ = r.WithProcessed(true, "", date(2024, 2, 1))

	r2, changed := r.WithProcessed(false, "late failure", date(2024, 3, 1))
	if changed {
		t.Fatal("second WithProcessed must be a no-op")
	}
	if !r2.Success() || r2.ErrorMessage() != "" {
		t.Error("outcome changed after the record was terminal")
	}
	if !r2.ProcessedDate().Equal(date(2024, 2, 1)) {
		t.Error("processedDate changed after first set")
	}
}

func TestWithProcessed_SuccessDropsErrorMessage(t *testing.T) {
	r, _ := NewRecord("Apple", Form10K, date(2024, 1, 1), "https://x")
	r, _ = r.WithProcessed(true, "should be ignored", date(2024, 2, 1))
	if r.ErrorMessage() != "" {
		t.Errorf("ErrorMessage() = %q, want empty on success", r.ErrorMessage())
	}
}

func TestProcessingError_OnlyForFailures(t *testing.T) {
	r, _ := NewRecord("Apple", Form10K, date(2024, 1, 1), "https://x")
	if _, ok := r.ProcessingError(); ok {
		t.Error("unprocessed record must not yield a ProcessingError")
	}

	ok1, _ := r.WithProcessed(true, "", date(2024, 2, 1))
	if _, ok := ok1.ProcessingError(); ok {
		t.Error("successful record must not yield a ProcessingError")
	}

	failed, _ := r.WithProcessed(false, "parse error", date(2024, 2, 1))
	pe, ok := failed.ProcessingError()
	if !ok {
		t.Fatal("failed record must yield a ProcessingError")
	}
	if pe.ErrorMessage != "parse error" || pe.URL != "https://x" {
		t.Errorf("ProcessingError = %+v", pe)
	}
	if !pe.ErrorDate.Equal(date(2024, 2, 1)) {
		t.Errorf("ErrorDate = %v", pe.ErrorDate)
	}
}

func TestSortByFilingDateDesc(t *testing.T) {
	mk := func(url string, filed time.Time, seq int64) DocumentRecord {
		r, err := NewRecord("Apple", Form10K, filed, url)
		if err != nil {
			t.Fatalf("NewRecord: %v", err)
		}
		return r.WithSequence(seq)
	}

	recs := []DocumentRecord{
		mk("https://x/1", date(2023, 5, 1), 3),
		mk("https://x/2", date(2024, 5, 1), 2),
		mk("https://x/3", date(2024, 5, 1), 1),
		mk("https://x/4", date(2022, 5, 1), 4),
	}
	SortByFilingDateDesc(recs)

	wantURLs := []string{"https://x/3", "https://x/2", "https://x/1", "https://x/4"}
	for i, want := range wantURLs {
		if recs[i].URL() != want {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].URL(), want)
		}
	}
}

func TestReconstruct_SkipsRecordValidation(t *testing.T) {
	r := Reconstruct("some-id", "", FormType("legacy"), time.Time{}, "",
		true, false, "old failure", date(2020, 1, 1), 7)
	if r.ID() != "some-id" || r.Seq() != 7 {
		t.Error("Reconstruct must hydrate fields verbatim")
	}
	if !strings.Contains(r.ErrorMessage(), "old failure") {
		t.Errorf("ErrorMessage() = %q", r.ErrorMessage())
	}
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		in      string
		want    FormType
		wantErr bool
	}{
		{"10-K", Form10K, false},
		{" 10-k ", Form10K, false},
		{"def 14a", FormDef14A, false},
		{"10-K/A", Form10KA, false},
		{"", "", true},
		{"99-Z", "", true},
	}
	for _, tc := range tests {
		got, err := ParseForm(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownForm) {
				t.Errorf("ParseForm(%q) err = %v, want ErrUnknownForm", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseForm(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestParseForms_EmptyYieldsNil(t *testing.T) {
	forms, err := ParseForms(nil)
	if err != nil || forms != nil {
		t.Errorf("ParseForms(nil) = %v, %v", forms, err)
	}
}

func TestKnownForms_SortedAndComplete(t *testing.T) {
	forms := KnownForms()
	if len(forms) != len(knownForms) {
		t.Fatalf("KnownForms() returned %d forms, want %d", len(forms), len(knownForms))
	}
	for i := 1; i < len(forms); i++ {
		if forms[i-1] >= forms[i] {
			t.Errorf("KnownForms() not sorted at %d: %q >= %q", i, forms[i-1], forms[i])
		}
	}
	for _, f := range forms {
		if !f.IsValid() {
			t.Errorf("KnownForms() contains invalid form %q", f)
		}
	}
}
