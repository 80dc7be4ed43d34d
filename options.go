package edgardex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "memory", "file" or "redis"

	dir   string
	watch bool

	addrs     []string
	password  string
	db        int
	keyPrefix string

	readinessTimeout time.Duration
	now              func() time.Time

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps all data in process memory. Nothing survives a restart;
// intended for tests and throwaway tooling.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithDataDir stores data as JSON tables under the given directory.
// The directory is created on Open when missing.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "file"
		c.dir = dir
	})
}

// WithWatch reloads the file backend when the data files change on disk.
// Use when a second process appends to the same directory.
func WithWatch() Option {
	return optionFunc(func(c *clientConfig) {
		c.watch = true
	})
}

// WithRedis configures the client to connect to a Redis-compatible instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisDB selects the logical redis database. Default: 0.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix namespaces every redis key. Default: "edgardex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the storage readiness wait during Open.
// Default: 15s for the redis backend; local backends open instantly.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithNow overrides the clock stamping processing outcomes. Intended for
// tests that need deterministic timestamps.
func WithNow(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
