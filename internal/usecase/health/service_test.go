package health

import (
	"context"
	"testing"
	"time"
)

// --- Mocks ---

type mockProber struct {
	healthy     bool
	sawDeadline bool
}

func (m *mockProber) Healthy(ctx context.Context) bool {
	_, m.sawDeadline = ctx.Deadline()
	return m.healthy
}

// --- Tests ---

func TestCheck_StorageHealthy(t *testing.T) {
	svc := New(&mockProber{healthy: true})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["storage"] != CheckOK {
		t.Errorf("expected storage %q, got %q", CheckOK, r.Checks["storage"])
	}
}

func TestCheck_StorageDown(t *testing.T) {
	svc := New(&mockProber{healthy: false})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["storage"] != CheckError {
		t.Errorf("expected storage %q, got %q", CheckError, r.Checks["storage"])
	}
}

func TestCheck_ProbeIsBounded(t *testing.T) {
	prober := &mockProber{healthy: true}
	svc := New(prober).WithTimeout(50 * time.Millisecond)

	svc.Check(context.Background())

	if !prober.sawDeadline {
		t.Error("expected the probe context to carry a deadline")
	}
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	svc := New(&mockProber{}).WithTimeout(0)
	if svc.timeout != DefaultProbeTimeout {
		t.Errorf("expected default timeout kept, got %v", svc.timeout)
	}
}
