package metrics

import "context"

// Snapshot aggregates cache performance counters with live store figures.
// TotalKeys and UsedMemory are queried from the store at snapshot time.
type Snapshot struct {
	CacheHits       int64  `json:"cacheHits"`
	CacheMisses     int64  `json:"cacheMisses"`
	TotalKeys       int64  `json:"totalKeys"`
	UsedMemory      int64  `json:"usedMemory"`
	UsedMemoryHuman string `json:"usedMemoryHuman"`
	Uptime          int64  `json:"uptime"` // seconds
}

// PurgeScope selects how much of the store a purge removes.
type PurgeScope string

const (
	// ScopeAll flushes the store's entire key space (reference behavior).
	ScopeAll PurgeScope = "all"
	// ScopeNamespace deletes only this service's summary keys.
	ScopeNamespace PurgeScope = "namespace"
)

// AdminResult reports the outcome of an administrative action.
type AdminResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type IMetricsUsecase interface {
	// Snapshot fails with a store-unavailable error when the store cannot be
	// queried; counters alone are never enough for a snapshot.
	Snapshot(ctx context.Context) (Snapshot, error)
	// PurgeAll irreversibly deletes cached entries. Idempotent: purging an
	// empty store succeeds trivially.
	PurgeAll(ctx context.Context, scope PurgeScope) error
	// ResetCounters zeroes hits and misses without touching stored entries.
	ResetCounters(ctx context.Context) error
}
