package redis

import (
	"context"
	"strconv"
	"strings"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/store"
)

// TrackDocument stores the record unless its URL is already tracked.
func (s *Store) TrackDocument(ctx context.Context, rec domain.DocumentRecord) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	key := s.docKey(rec.ID())

	// HSETNX on the url field is the atomic claim: the first tracker of a
	// URL creates the row, every later one sees the field taken and backs
	// off without touching anything.
	claimed, err := s.do(ctx, s.b().Hsetnx().Key(key).Field(fieldURL).Value(rec.URL()).Build()).AsBool()
	if err != nil {
		return s.fail(store.OpTrack, err)
	}
	if !claimed {
		return nil
	}

	seq, err := s.do(ctx, s.b().Incr().Key(s.seqKey()).Build()).AsInt64()
	if err != nil {
		return s.fail(store.OpTrack, err)
	}

	cmd := s.b().Hset().Key(key).FieldValue().
		FieldValue(fieldCompany, rec.CompanyName()).
		FieldValue(fieldForm, string(rec.Form())).
		FieldValue(fieldFilingDate, rec.FilingDate().Format(filingDateLayout)).
		FieldValue(fieldSeq, strconv.FormatInt(seq, 10)).
		Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return s.fail(store.OpTrack, err)
	}
	return nil
}

// MarkProcessed records the outcome for the record with the given URL.
// Unknown URLs and already processed records change nothing. HSETNX on the
// processed flag makes exactly one concurrent outcome win; the winner then
// writes the outcome fields in a single HSET.
func (s *Store) MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	key := s.docKey(domain.RecordID(url))

	exists, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return s.fail(store.OpMarkProcessed, err)
	}
	if exists == 0 {
		return nil
	}

	claimed, err := s.do(ctx, s.b().Hsetnx().Key(key).Field(fieldProcessed).Value("1").Build()).AsBool()
	if err != nil {
		return s.fail(store.OpMarkProcessed, err)
	}
	if !claimed {
		return nil
	}

	outcome := s.b().Hset().Key(key).FieldValue().
		FieldValue(fieldSuccess, flag(success)).
		FieldValue(fieldProcessedAt, s.now().UTC().Format(timeLayout))
	if msg := strings.TrimSpace(errorMessage); !success && msg != "" {
		outcome = outcome.FieldValue(fieldError, msg)
	}
	if err := s.do(ctx, outcome.Build()).Error(); err != nil {
		return s.fail(store.OpMarkProcessed, err)
	}
	return nil
}

// SaveContent stores extracted text for a tracked URL; unknown URLs are a
// silent no-op.
func (s *Store) SaveContent(ctx context.Context, url, content string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	id := domain.RecordID(url)

	exists, err := s.do(ctx, s.b().Exists().Key(s.docKey(id)).Build()).AsInt64()
	if err != nil {
		return s.fail(store.OpSaveContent, err)
	}
	if exists == 0 {
		return nil
	}

	if err := s.do(ctx, s.b().Set().Key(s.contentKey(id)).Value(content).Build()).Error(); err != nil {
		return s.fail(store.OpSaveContent, err)
	}
	return nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
