package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	"github.com/Rutvik2598/PostPolice/infrastructure/valkey"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
)

// DefaultOpTimeout bounds every store round trip so a stalled connection is
// reported as unavailable, never as a silent hang.
const DefaultOpTimeout = 2 * time.Second

// ValkeySummaryStore implements cache.SummaryStore on a Valkey connection.
type ValkeySummaryStore struct {
	client    *valkey.Client
	opTimeout time.Duration
}

// NewValkeySummaryStore creates a summary store on the shared client. A zero
// opTimeout falls back to DefaultOpTimeout.
func NewValkeySummaryStore(client *valkey.Client, opTimeout time.Duration) *ValkeySummaryStore {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &ValkeySummaryStore{client: client, opTimeout: opTimeout}
}

func (s *ValkeySummaryStore) inner() (valkeylib.Client, error) {
	if !s.client.Ready() {
		return nil, pkgError.StoreUnavailableError(fmt.Sprintf("valkey is not connected (state: %s)", s.client.State()))
	}
	return s.client.Inner(), nil
}

func (s *ValkeySummaryStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// key applies the client's configured prefix. With the default empty prefix
// the stored key is exactly the fingerprint.
func (s *ValkeySummaryStore) key(k string) string {
	return s.client.Key(k)
}

func (s *ValkeySummaryStore) Get(ctx context.Context, key string) (string, bool, error) {
	inner, err := s.inner()
	if err != nil {
		return "", false, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cmd := inner.B().Get().Key(s.key(key)).Build()
	value, err := inner.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsNil(err) {
			return "", false, nil
		}
		return "", false, pkgError.StoreUnavailableError(fmt.Sprintf("failed to get %s: %v", key, err))
	}
	return value, true, nil
}

func (s *ValkeySummaryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	inner, err := s.inner()
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cmd := inner.B().Set().Key(s.key(key)).Value(value).Ex(ttl).Build()
	if err := inner.Do(ctx, cmd).Error(); err != nil {
		return pkgError.StoreWriteError(fmt.Sprintf("failed to set %s: %v", key, err))
	}
	return nil
}

func (s *ValkeySummaryStore) TotalKeys(ctx context.Context) (int64, error) {
	inner, err := s.inner()
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	count, err := inner.Do(ctx, inner.B().Dbsize().Build()).AsInt64()
	if err != nil {
		return 0, pkgError.StoreUnavailableError(fmt.Sprintf("failed to count keys: %v", err))
	}
	return count, nil
}

func (s *ValkeySummaryStore) UsedMemory(ctx context.Context) (int64, error) {
	inner, err := s.inner()
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	info, err := inner.Do(ctx, inner.B().Info().Section("memory").Build()).ToString()
	if err != nil {
		return 0, pkgError.StoreUnavailableError(fmt.Sprintf("failed to read memory info: %v", err))
	}
	return parseUsedMemory(info)
}

// parseUsedMemory extracts the used_memory byte count from an INFO memory
// reply.
func parseUsedMemory(info string) (int64, error) {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if value, found := strings.CutPrefix(line, "used_memory:"); found {
			bytes, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed used_memory value %q: %w", value, err)
			}
			return bytes, nil
		}
	}
	return 0, fmt.Errorf("used_memory not present in INFO reply")
}

func (s *ValkeySummaryStore) FlushAll(ctx context.Context) error {
	inner, err := s.inner()
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := inner.Do(ctx, inner.B().Flushall().Build()).Error(); err != nil {
		return pkgError.StoreUnavailableError(fmt.Sprintf("failed to flush store: %v", err))
	}
	return nil
}

func (s *ValkeySummaryStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	inner, err := s.inner()
	if err != nil {
		return 0, err
	}

	var deleted int64
	var cursor uint64
	for {
		scanCtx, cancel := s.opContext(ctx)
		cmd := inner.B().Scan().Cursor(cursor).Match(s.key(prefix) + "*").Count(100).Build()
		result, err := inner.Do(scanCtx, cmd).AsScanEntry()
		cancel()
		if err != nil {
			return deleted, pkgError.StoreUnavailableError(fmt.Sprintf("failed to scan %s*: %v", prefix, err))
		}

		if len(result.Elements) > 0 {
			delCtx, cancel := s.opContext(ctx)
			count, err := inner.Do(delCtx, inner.B().Del().Key(result.Elements...).Build()).AsInt64()
			cancel()
			if err != nil {
				return deleted, pkgError.StoreUnavailableError(fmt.Sprintf("failed to delete scanned keys: %v", err))
			}
			deleted += count
		}

		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (s *ValkeySummaryStore) Ping(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.Ping(ctx)
}

var _ domainCache.SummaryStore = (*ValkeySummaryStore)(nil)
