// Package cache defines the result cache collaborator contract and ships
// two implementations: a TTL in-memory store and a no-op store for the
// always-compute mode.
//
// The engine treats the cache as best-effort. A Get miss or a Set error
// never fails a filter call; a cache is always replaceable by Noop.
// Implementations must be safe for concurrent use; no external locking is
// required because cached computations are idempotent and last-write-wins
// is correct.
package cache

import "time"

// Store is the cache collaborator contract.
type Store interface {
	// Get returns the value for key, or false when absent or expired.
	Get(key string) (any, bool)

	// Set stores value under key for ttl. A zero ttl stores without
	// expiry. Errors indicate the store is unavailable; callers degrade
	// to computing directly.
	Set(key string, value any, ttl time.Duration) error

	// Delete removes key if present.
	Delete(key string) error
}

// Noop is the always-miss store. Plugging it in turns the engine into
// always-compute mode.
type Noop struct{}

// NewNoop returns a Noop store.
func NewNoop() Noop { return Noop{} }

// Get always misses.
func (Noop) Get(string) (any, bool) { return nil, false }

// Set discards the value.
func (Noop) Set(string, any, time.Duration) error { return nil }

// Delete does nothing.
func (Noop) Delete(string) error { return nil }
