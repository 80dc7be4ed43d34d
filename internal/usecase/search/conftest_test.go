package search

import (
	"context"
	"testing"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
)

// --- Mocks ---

type mockSearcher struct {
	records  []domain.DocumentRecord
	count    int
	err      error
	countErr error

	companyCalled bool
	formCalled    bool
	lastFilter    domain.Filter
	lastSkip      int
	lastTake      int
}

func (m *mockSearcher) SearchByCompany(
	_ context.Context, f domain.Filter, skip, take int,
) ([]domain.DocumentRecord, error) {
	m.companyCalled = true
	m.lastFilter = f
	m.lastSkip, m.lastTake = skip, take
	return m.records, m.err
}

func (m *mockSearcher) SearchByFormType(
	_ context.Context, f domain.Filter, skip, take int,
) ([]domain.DocumentRecord, error) {
	m.formCalled = true
	m.lastFilter = f
	m.lastSkip, m.lastTake = skip, take
	return m.records, m.err
}

func (m *mockSearcher) CountSearchResults(_ context.Context, _ domain.Filter) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

type mockFinder struct {
	records []domain.DocumentRecord
	err     error
	called  bool
}

func (m *mockFinder) FindRecords(_ context.Context, _ domain.Filter) ([]domain.DocumentRecord, error) {
	m.called = true
	return m.records, m.err
}

type mockContent struct {
	texts map[string]string
	err   error
	calls int
}

func (m *mockContent) Content(_ context.Context, id string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	text, ok := m.texts[id]
	if !ok {
		return "", domain.ErrNoContent
	}
	return text, nil
}

// --- Helpers ---

func newTestService(searcher *mockSearcher, finder *mockFinder, content *mockContent) *Service {
	if searcher == nil {
		searcher = &mockSearcher{}
	}
	if finder == nil {
		finder = &mockFinder{}
	}
	if content == nil {
		content = &mockContent{}
	}
	return New(searcher, finder, content)
}

func testRecord(t *testing.T, company string, form domain.FormType, filed, url string) domain.DocumentRecord {
	t.Helper()
	d, err := time.Parse("2006-01-02", filed)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	rec, err := domain.NewRecord(company, form, d, url)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return rec
}
