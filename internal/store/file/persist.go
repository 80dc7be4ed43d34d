package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
)

// docRow is the persisted identity of one record. Outcomes live in their
// own table so the two write paths stay independent.
type docRow struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	Form        string `json:"form"`
	FilingDate  string `json:"filingDate"`
	URL         string `json:"url"`
	Seq         int64  `json:"seq"`
}

// outcomeRow is one processing outcome, keyed by record id in the table.
type outcomeRow struct {
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	ProcessedDate time.Time `json:"processedDate"`
}

// documentsTable is the on-disk shape of documents.json. Seq is the
// insertion-sequence high-water mark.
type documentsTable struct {
	Seq       int64    `json:"seq"`
	Documents []docRow `json:"documents"`
}

const filingDateLayout = "2006-01-02"

// loadLocked rebuilds the mirror from both tables. Missing files mean a
// fresh directory and load as empty state. Callers hold s.mu.
func (s *Store) loadLocked() error {
	var docs documentsTable
	if err := readJSON(s.documentsPath(), &docs); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	outcomes := make(map[string]outcomeRow)
	if err := readJSON(s.outcomesPath(), &outcomes); err != nil {
		return fmt.Errorf("load outcomes: %w", err)
	}

	records := make(map[string]domain.DocumentRecord, len(docs.Documents))
	seq := docs.Seq
	for _, row := range docs.Documents {
		filed, err := time.ParseInLocation(filingDateLayout, row.FilingDate, time.UTC)
		if err != nil {
			return fmt.Errorf("document %s: bad filing date %q: %w", row.ID, row.FilingDate, err)
		}
		out, processed := outcomes[row.ID]
		records[row.ID] = domain.Reconstruct(
			row.ID, row.CompanyName, domain.FormType(row.Form), filed, row.URL,
			processed, out.Success, out.ErrorMessage, out.ProcessedDate,
			row.Seq,
		)
		if row.Seq > seq {
			seq = row.Seq
		}
	}

	s.records = records
	s.seq = seq
	return nil
}

// saveDocumentsLocked rewrites documents.json from the mirror. Callers
// hold s.mu.
func (s *Store) saveDocumentsLocked() error {
	recs := make([]domain.DocumentRecord, 0, len(s.records))
	for _, r := range s.records {
		recs = append(recs, r)
	}
	domain.SortByInsertion(recs)

	table := documentsTable{Seq: s.seq, Documents: make([]docRow, 0, len(recs))}
	for _, r := range recs {
		table.Documents = append(table.Documents, docRow{
			ID:          r.ID(),
			CompanyName: r.CompanyName(),
			Form:        string(r.Form()),
			FilingDate:  r.FilingDate().Format(filingDateLayout),
			URL:         r.URL(),
			Seq:         r.Seq(),
		})
	}
	return writeJSONAtomic(s.documentsPath(), table)
}

// saveOutcomesLocked rewrites outcomes.json from the mirror. Callers hold
// s.mu.
func (s *Store) saveOutcomesLocked() error {
	outcomes := make(map[string]outcomeRow)
	for id, r := range s.records {
		if !r.Processed() {
			continue
		}
		outcomes[id] = outcomeRow{
			Success:       r.Success(),
			ErrorMessage:  r.ErrorMessage(),
			ProcessedDate: r.ProcessedDate(),
		}
	}
	return writeJSONAtomic(s.outcomesPath(), outcomes)
}

// readJSON decodes path into v; a missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSONAtomic marshals v and replaces path atomically.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
