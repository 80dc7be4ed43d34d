package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FormType is an SEC filing form code.
type FormType string

// Form codes the crawler tracks. Amended filings carry the "/A" suffix.
const (
	Form10K    FormType = "10-K"
	Form10KA   FormType = "10-K/A"
	Form10Q    FormType = "10-Q"
	Form10QA   FormType = "10-Q/A"
	Form8K     FormType = "8-K"
	Form8KA    FormType = "8-K/A"
	Form20F    FormType = "20-F"
	Form6K     FormType = "6-K"
	FormDef14A FormType = "DEF 14A"
	FormS1     FormType = "S-1"
	FormS1A    FormType = "S-1/A"
	Form4      FormType = "4"
)

var knownForms = map[FormType]bool{
	Form10K:    true,
	Form10KA:   true,
	Form10Q:    true,
	Form10QA:   true,
	Form8K:     true,
	Form8KA:    true,
	Form20F:    true,
	Form6K:     true,
	FormDef14A: true,
	FormS1:     true,
	FormS1A:    true,
	Form4:      true,
}

// IsValid checks if the form code is one of the known values.
func (f FormType) IsValid() bool { return knownForms[f] }

func (f FormType) String() string { return string(f) }

// ParseForm normalizes a raw form code (trims, uppercases) and validates it
// against the known set.
func ParseForm(s string) (FormType, error) {
	f := FormType(strings.ToUpper(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownForm, s)
	}
	return f, nil
}

// ParseForms parses a list of raw form codes. An empty input yields nil
// (callers decide whether that means "no constraint" or "all known forms").
func ParseForms(raw []string) ([]FormType, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	forms := make([]FormType, 0, len(raw))
	for _, s := range raw {
		f, err := ParseForm(s)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

// KnownForms returns every known form code in lexical order.
func KnownForms() []FormType {
	forms := make([]FormType, 0, len(knownForms))
	for f := range knownForms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i] < forms[j] })
	return forms
}
