package domain

import (
	"strings"
	"time"
)

// Filter is the shared record-matching criteria behind every search and
// count operation. The zero value matches all records. All backends funnel
// matching through it, so the three implementations agree by construction.
type Filter struct {
	// Company matches a case-insensitive substring of the company name.
	Company string
	// Companies matches exact company names, case-insensitive.
	Companies []string
	// Forms matches the form code against an exact set.
	Forms []FormType
	// Since and Until bound the filing date inclusively; zero = unbounded.
	Since time.Time
	Until time.Time
}

// Matches reports whether the record satisfies every criterion of the filter.
func (f Filter) Matches(r DocumentRecord) bool {
	if f.Company != "" &&
		!strings.Contains(strings.ToLower(r.companyName), strings.ToLower(f.Company)) {
		return false
	}
	if len(f.Companies) > 0 && !containsFold(f.Companies, r.companyName) {
		return false
	}
	if len(f.Forms) > 0 && !containsForm(f.Forms, r.form) {
		return false
	}
	if !f.Since.IsZero() && r.filingDate.Before(DateOnly(f.Since)) {
		return false
	}
	if !f.Until.IsZero() && r.filingDate.After(DateOnly(f.Until)) {
		return false
	}
	return true
}

// FilterRecords returns the records matching f, preserving input order.
func FilterRecords(recs []DocumentRecord, f Filter) []DocumentRecord {
	var out []DocumentRecord
	for _, r := range recs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

func containsForm(forms []FormType, form FormType) bool {
	for _, f := range forms {
		if f == form {
			return true
		}
	}
	return false
}
