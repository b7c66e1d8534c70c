package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
// No per-request timeout is applied.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
