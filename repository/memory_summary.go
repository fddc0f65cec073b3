package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
)

// DefaultJanitorInterval is how often the memory store sweeps expired keys.
const DefaultJanitorInterval = time.Minute

type memoryEntry struct {
	value      string
	expiration int64 // unix nanos; entries always expire in this store
}

func (e memoryEntry) expired(now int64) bool {
	return now > e.expiration
}

// MemorySummaryStore implements cache.SummaryStore in process memory. It
// mirrors the Valkey semantics: TTL per entry, last-write-wins, whole-store
// flush. Expired keys are dropped lazily on Get and actively by a janitor
// goroutine so memory stays bounded even for keys never read again.
type MemorySummaryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemorySummaryStore creates a memory store. A positive janitorInterval
// starts the background sweep; zero or negative disables it and the store
// relies on lazy expiration only.
func NewMemorySummaryStore(janitorInterval time.Duration) *MemorySummaryStore {
	store := &MemorySummaryStore{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	if janitorInterval > 0 {
		go store.janitor(janitorInterval)
	}
	return store
}

func (s *MemorySummaryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.deleteExpired()
		}
	}
}

func (s *MemorySummaryStore) deleteExpired() {
	now := time.Now().UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, key)
		}
	}
}

// Close stops the janitor. Safe to call more than once.
func (s *MemorySummaryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemorySummaryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, found := s.entries[key]
	s.mu.RUnlock()

	if !found {
		return "", false, nil
	}
	if entry.expired(time.Now().UnixNano()) {
		// Lazy expiration: drop the stale entry now instead of waiting for
		// the janitor.
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiration == entry.expiration {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *MemorySummaryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	return nil
}

func (s *MemorySummaryStore) TotalKeys(ctx context.Context) (int64, error) {
	now := time.Now().UnixNano()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, entry := range s.entries {
		if !entry.expired(now) {
			count++
		}
	}
	return count, nil
}

// UsedMemory approximates usage as the byte length of live keys and values.
func (s *MemorySummaryStore) UsedMemory(ctx context.Context) (int64, error) {
	now := time.Now().UnixNano()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bytes int64
	for key, entry := range s.entries {
		if !entry.expired(now) {
			bytes += int64(len(key) + len(entry.value))
		}
	}
	return bytes, nil
}

func (s *MemorySummaryStore) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

func (s *MemorySummaryStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemorySummaryStore) Ping(ctx context.Context) error {
	return nil
}

var _ domainCache.SummaryStore = (*MemorySummaryStore)(nil)
