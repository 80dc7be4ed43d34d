// Package redis implements the store contract over a Redis-compatible
// server via rueidis.
//
// Layout: one hash per record at <prefix>doc:<id>, extracted text at
// <prefix>content:<id>, the insertion sequence counter at <prefix>seq.
// Reads SCAN the doc keyspace and pipeline HGETALL; records are filtered
// client-side through the shared domain matcher, so the remote backend
// orders and filters exactly like the local ones. Every command runs under
// a bounded per-operation timeout; failures surface as store.Error
// wrapping ErrStorageUnavailable.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/filinglab/edgardex/internal/domain"
	"github.com/filinglab/edgardex/internal/store"
)

// Compile-time check: Store implements store.Store.
var _ store.Store = (*Store)(nil)

const (
	defaultKeyPrefix    = "edgardex:"
	defaultOpTimeout    = 5 * time.Second
	defaultReadyTimeout = 15 * time.Second
)

// Config holds connection parameters for a redis-backed store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// KeyPrefix namespaces every key. Defaults to "edgardex:".
	KeyPrefix string
	// OpTimeout bounds each store operation. Defaults to 5s.
	OpTimeout time.Duration
	// ReadyTimeout bounds the Initialize connectivity wait. Defaults to 15s.
	ReadyTimeout time.Duration
	// Now overrides the clock stamping processing outcomes. Defaults to
	// time.Now.
	Now func() time.Time
}

// Store implements store.Store via rueidis.
type Store struct {
	client       rueidis.Client
	prefix       string
	opTimeout    time.Duration
	readyTimeout time.Duration
	now          func() time.Time
}

// NewStore creates a redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s := &Store{client: client}
	s.applyDefaults(cfg)
	return s, nil
}

func (s *Store) applyDefaults(cfg Config) {
	s.prefix = cfg.KeyPrefix
	if s.prefix == "" {
		s.prefix = defaultKeyPrefix
	}
	s.opTimeout = cfg.OpTimeout
	if s.opTimeout == 0 {
		s.opTimeout = defaultOpTimeout
	}
	s.readyTimeout = cfg.ReadyTimeout
	if s.readyTimeout == 0 {
		s.readyTimeout = defaultReadyTimeout
	}
	s.now = cfg.Now
	if s.now == nil {
		s.now = time.Now
	}
}

// Initialize polls connectivity until the server responds or the readiness
// timeout expires.
func (s *Store) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.readyTimeout)
	defer cancel()

	if err := s.ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.fail(store.OpInitialize, fmt.Errorf("waiting for redis: %w", ctx.Err()))
		case <-ticker.C:
			if err := s.ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Healthy reports whether the server answers PING within the op timeout.
func (s *Store) Healthy(ctx context.Context) bool {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.ping(ctx) == nil
}

// Close shuts down the client.
func (s *Store) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

func (s *Store) ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// opCtx bounds one store operation with the configured timeout.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// fail annotates a command failure; both the unavailability sentinel and
// the underlying error stay reachable through the chain.
func (s *Store) fail(op string, err error) error {
	return &store.Error{Op: op, Err: fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)}
}
