package store

// Op constants name store operations for error context.
const (
	OpInitialize    = "initialize"
	OpTrack         = "track_document"
	OpMarkProcessed = "mark_processed"
	OpSaveContent   = "save_content"
	OpContent       = "content"
	OpUnprocessed   = "unprocessed"
	OpFind          = "find_records"
	OpSearch        = "search"
	OpCount         = "count"
	OpMetrics       = "crawl_metrics"
	OpErrors        = "processing_errors"
	OpYearly        = "yearly_metrics"
	OpClose         = "close"
)

// Error wraps an underlying error with the store operation for diagnostics.
// Backends annotate every failure with it; the sentinel chain underneath
// stays reachable through Unwrap.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
