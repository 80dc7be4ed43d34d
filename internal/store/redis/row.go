package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/store"
)

// Hash field names of one record row.
const (
	fieldCompany     = "company"
	fieldForm        = "form"
	fieldFilingDate  = "filed"
	fieldURL         = "url"
	fieldSeq         = "seq"
	fieldProcessed   = "processed"
	fieldSuccess     = "success"
	fieldError       = "error"
	fieldProcessedAt = "processedAt"
)

const (
	filingDateLayout = "2006-01-02"
	timeLayout       = time.RFC3339
)

func (s *Store) docKey(id string) string     { return s.prefix + "doc:" + id }
func (s *Store) contentKey(id string) string { return s.prefix + "content:" + id }
func (s *Store) seqKey() string              { return s.prefix + "seq" }

// recordFromRow rebuilds a DocumentRecord from its hash fields.
func recordFromRow(id string, row map[string]string) (domain.DocumentRecord, error) {
	filed, err := time.ParseInLocation(filingDateLayout, row[fieldFilingDate], time.UTC)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("record %s: bad filing date %q: %w", id, row[fieldFilingDate], err)
	}
	seq, err := strconv.ParseInt(row[fieldSeq], 10, 64)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("record %s: bad seq %q: %w", id, row[fieldSeq], err)
	}

	processed := row[fieldProcessed] == "1"
	var processedAt time.Time
	if v := row[fieldProcessedAt]; v != "" {
		processedAt, err = time.Parse(timeLayout, v)
		if err != nil {
			return domain.DocumentRecord{}, fmt.Errorf("record %s: bad processed date %q: %w", id, v, err)
		}
	}

	return domain.Reconstruct(
		id, row[fieldCompany], domain.FormType(row[fieldForm]), filed, row[fieldURL],
		processed, row[fieldSuccess] == "1", row[fieldError], processedAt,
		seq,
	), nil
}

// scanRecords loads every record row: SCAN over the doc keyspace, then one
// pipelined HGETALL batch. The result comes back in insertion order.
func (s *Store) scanRecords(ctx context.Context, op string) ([]domain.DocumentRecord, error) {
	keys, err := s.scanKeys(ctx, s.prefix+"doc:*")
	if err != nil {
		return nil, s.fail(op, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	recs := make([]domain.DocumentRecord, 0, len(results))
	for i, res := range results {
		row, err := res.AsStrMap()
		if err != nil {
			return nil, s.fail(op, fmt.Errorf("key %s: %w", keys[i], err))
		}
		if len(row) == 0 {
			// Key vanished between SCAN and HGETALL.
			continue
		}
		id := strings.TrimPrefix(keys[i], s.prefix+"doc:")
		rec, err := recordFromRow(id, row)
		if err != nil {
			return nil, &store.Error{Op: op, Err: err}
		}
		recs = append(recs, rec)
	}

	domain.SortByInsertion(recs)
	return recs, nil
}

func (s *Store) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, err
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}
