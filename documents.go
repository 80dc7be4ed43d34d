package edgardex

import (
	"context"
	"time"

	"github.com/filinglab/edgardex/internal/domain"
	trackinguc "github.com/filinglab/edgardex/internal/usecase/tracking"
)

// DocumentService is the crawler-facing write path: track discovered
// filings, record processing outcomes, store extracted text.
//
// Errors stay errors.Is-compatible with the package sentinels; no extra
// wrapping happens here because the underlying operations already name
// themselves.
type DocumentService struct {
	svc trackingUseCase
	obs *observer
}

// Track registers a discovered filing. Tracking an already known URL is a
// no-op; either way the record id is returned.
func (s *DocumentService) Track(ctx context.Context, f Filing) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.track", start, err) }()

	return s.svc.TrackDocument(ctx, toTrackRequest(f))
}

// MarkProcessed records the processing outcome for a tracked URL. A
// non-empty errorMessage is only allowed when success is false.
func (s *DocumentService) MarkProcessed(ctx context.Context, url string, success bool, errorMessage string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.mark_processed", start, err) }()

	return s.svc.MarkProcessed(ctx, url, success, errorMessage)
}

// SaveContent stores extracted document text for a tracked URL, making the
// document reachable by content search.
func (s *DocumentService) SaveContent(ctx context.Context, url, content string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.save_content", start, err) }()

	return s.svc.SaveContent(ctx, url, content)
}

// Unprocessed returns the documents still awaiting processing, in insertion
// order.
func (s *DocumentService) Unprocessed(ctx context.Context) (_ []Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.unprocessed", start, err) }()

	recs, err := s.svc.Unprocessed(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Document, len(recs))
	for i, r := range recs {
		out[i] = fromRecord(r)
	}
	return out, nil
}

func toTrackRequest(f Filing) trackinguc.TrackRequest {
	return trackinguc.TrackRequest{
		CompanyName: f.CompanyName,
		Form:        f.Form,
		FilingDate:  f.FilingDate,
		URL:         f.URL,
	}
}

func fromRecord(r domain.DocumentRecord) Document {
	return Document{
		ID:            r.ID(),
		CompanyName:   r.CompanyName(),
		Form:          r.Form().String(),
		FilingDate:    r.FilingDate(),
		URL:           r.URL(),
		Processed:     r.Processed(),
		Success:       r.Success(),
		ErrorMessage:  r.ErrorMessage(),
		ProcessedDate: r.ProcessedDate(),
	}
}
