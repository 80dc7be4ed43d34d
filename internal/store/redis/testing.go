package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	s := &Store{client: c}
	s.applyDefaults(Config{})
	return s
}
