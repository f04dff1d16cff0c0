// Package store provides the key-value storage used for transient
// security state (CSRF records, rate-limit counters). Everything is keyed
// by string and expires; the interface is deliberately small so a shared
// external store can replace the in-process map without touching callers.
package store

import "time"

type Store[V any] interface {
	// Get returns the live value for key. Expired entries are treated as
	// absent and removed.
	Get(key string) (V, bool)
	// Set stores value under key, replacing any prior entry. A ttl <= 0
	// means the entry never expires.
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
	// Sweep drops every expired entry and reports how many were removed.
	Sweep() int
	Len() int
}
