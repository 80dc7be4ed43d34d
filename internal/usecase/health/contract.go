package health

import "context"

// StorageProber checks storage availability. Healthy never returns an error;
// false means the backend is unreachable.
type StorageProber interface {
	Healthy(ctx context.Context) bool
}
