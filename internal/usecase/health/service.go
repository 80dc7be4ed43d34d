package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// DefaultProbeTimeout bounds one health probe.
const DefaultProbeTimeout = 2 * time.Second

// Service coordinates health checks.
type Service struct {
	storage StorageProber
	timeout time.Duration
}

// New creates a Service probing the storage backend.
func New(storage StorageProber) *Service {
	return &Service{storage: storage, timeout: DefaultProbeTimeout}
}

// WithTimeout overrides the per-probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.storage.Healthy(probeCtx) {
		checks["storage"] = CheckOK
	} else {
		checks["storage"] = CheckError
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == 0:
		status = Healthy
	case failed == len(checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
