package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RecordID derives the stable identity of a filing from its source URL.
// The same URL always yields the same id, which is what makes re-tracking
// idempotent across crawler restarts.
func RecordID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// DocumentRecord is one tracked filing (immutable value object).
//
// Identity (id, companyName, form, filingDate, url) never changes after
// creation. processed transitions false→true exactly once; success,
// errorMessage and processedDate are written only at that transition.
type DocumentRecord struct {
	id          string
	companyName string
	form        FormType
	filingDate  time.Time
	url         string

	processed     bool
	success       bool
	errorMessage  string
	processedDate time.Time

	// seq is the backend-assigned insertion sequence; it breaks ordering
	// ties between equal filing dates.
	seq int64
}

// NewRecord validates input and creates an unprocessed DocumentRecord.
// The filing date is truncated to a UTC calendar date.
func NewRecord(companyName string, form FormType, filingDate time.Time, url string) (DocumentRecord, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return DocumentRecord{}, fmt.Errorf("%w: company name is required", ErrInvalidParameter)
	}
	if !form.IsValid() {
		return DocumentRecord{}, fmt.Errorf("%w: %q", ErrUnknownForm, form)
	}
	if filingDate.IsZero() {
		return DocumentRecord{}, fmt.Errorf("%w: filing date is required", ErrInvalidParameter)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return DocumentRecord{}, fmt.Errorf("%w: url is required", ErrInvalidParameter)
	}

	return DocumentRecord{
		id:          RecordID(url),
		companyName: companyName,
		form:        form,
		filingDate:  DateOnly(filingDate),
		url:         url,
	}, nil
}

// Reconstruct creates a DocumentRecord without validation (storage hydration).
func Reconstruct(
	id, companyName string, form FormType, filingDate time.Time, url string,
	processed, success bool, errorMessage string, processedDate time.Time,
	seq int64,
) DocumentRecord {
	return DocumentRecord{
		id:          id,
		companyName: companyName,
		form:        form,
		filingDate:  filingDate,
		url:         url,

		processed:     processed,
		success:       success,
		errorMessage:  errorMessage,
		processedDate: processedDate,

		seq: seq,
	}
}

// ID returns the URL-derived record identity.
func (r DocumentRecord) ID() string { return r.id }

// CompanyName returns the filing company name.
func (r DocumentRecord) CompanyName() string { return r.companyName }

// Form returns the SEC form code.
func (r DocumentRecord) Form() FormType { return r.form }

// FilingDate returns the UTC calendar date the document was filed.
func (r DocumentRecord) FilingDate() time.Time { return r.filingDate }

// URL returns the source document URL.
func (r DocumentRecord) URL() string { return r.url }

// Processed reports whether the crawler finished processing the document.
func (r DocumentRecord) Processed() bool { return r.processed }

// Success is meaningful only when Processed is true.
func (r DocumentRecord) Success() bool { return r.success }

// ErrorMessage is non-empty only for processed, failed records.
func (r DocumentRecord) ErrorMessage() string { return r.errorMessage }

// ProcessedDate returns when processing finished; zero while unprocessed.
func (r DocumentRecord) ProcessedDate() time.Time { return r.processedDate }

// Seq returns the backend insertion sequence.
func (r DocumentRecord) Seq() int64 { return r.seq }

// WithProcessed returns a copy carrying the processing outcome and whether
// the transition happened. Once processed, further calls change nothing —
// the record state machine is terminal.
func (r DocumentRecord) WithProcessed(success bool, errorMessage string, at time.Time) (DocumentRecord, bool) {
	if r.processed {
		return r, false
	}
	r.processed = true
	r.success = success
	if !success {
		r.errorMessage = strings.TrimSpace(errorMessage)
	}
	r.processedDate = at.UTC()
	return r, true
}

// WithSequence returns a copy with the backend insertion sequence set.
func (r DocumentRecord) WithSequence(seq int64) DocumentRecord {
	r.seq = seq
	return r
}

// ProcessingError is the failed-record view surfaced by error listings.
// Derived from DocumentRecord, never stored on its own.
type ProcessingError struct {
	CompanyName  string
	Form         FormType
	URL          string
	ErrorMessage string
	ErrorDate    time.Time
}

// ProcessingError reports the failure view of the record; ok is false unless
// the record is processed and failed.
func (r DocumentRecord) ProcessingError() (ProcessingError, bool) {
	if !r.processed || r.success {
		return ProcessingError{}, false
	}
	return ProcessingError{
		CompanyName:  r.companyName,
		Form:         r.form,
		URL:          r.url,
		ErrorMessage: r.errorMessage,
		ErrorDate:    r.processedDate,
	}, true
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortByFilingDateDesc orders records by filing date descending; equal dates
// fall back to insertion order. Every backend returns search results in this
// order.
func SortByFilingDateDesc(recs []DocumentRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].filingDate.Equal(recs[j].filingDate) {
			return recs[i].filingDate.After(recs[j].filingDate)
		}
		return recs[i].seq < recs[j].seq
	})
}

// SortByInsertion orders records by the backend insertion sequence.
func SortByInsertion(recs []DocumentRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
}
