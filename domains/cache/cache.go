package cache

import (
	"context"
	"time"
)

// CheckRequest asks whether a summary for the given content is cached.
type CheckRequest struct {
	Content string `json:"content"`
}

// CheckResult is the outcome of a cache lookup. Summary is present only on a
// hit.
type CheckResult struct {
	Hit     bool   `json:"hit"`
	Summary string `json:"summary,omitempty"`
}

// StoreRequest caches a generated summary for the given content.
type StoreRequest struct {
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// StoreResult confirms whether the store accepted the write.
type StoreResult struct {
	Stored  bool   `json:"stored"`
	Message string `json:"message,omitempty"`
}

type ICacheUsecase interface {
	// CheckSummary returns the cached summary for the content, if any. A
	// store outage degrades to a miss instead of failing: the cache is an
	// optimization, never a hard dependency.
	CheckSummary(ctx context.Context, request CheckRequest) (CheckResult, error)
	// CacheSummary writes the summary under the content's fingerprint with
	// the configured TTL. A re-store for the same content overwrites the
	// value and resets the TTL.
	CacheSummary(ctx context.Context, request StoreRequest) error
}

// SummaryStore is the backing key-value store contract. Implementations back
// it with Valkey or an in-memory map; both expire entries by TTL.
type SummaryStore interface {
	// Get returns the value for key and whether it was found unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes key with the given TTL, overwriting any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// TotalKeys reports the number of keys currently held by the store.
	TotalKeys(ctx context.Context) (int64, error)
	// UsedMemory reports the store's memory usage in bytes.
	UsedMemory(ctx context.Context) (int64, error)
	// FlushAll deletes every entry in the store's key space.
	FlushAll(ctx context.Context) error
	// DeleteByPrefix deletes only keys under the given prefix, returning how
	// many were removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	// Ping probes store connectivity.
	Ping(ctx context.Context) error
}
