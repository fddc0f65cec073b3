package usecase

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	domainMetrics "github.com/Rutvik2598/PostPolice/domains/metrics"
	"github.com/Rutvik2598/PostPolice/pkg/counters"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
)

type metricsService struct {
	store     domainCache.SummaryStore
	recorder  *counters.Recorder
	namespace string
}

func NewMetricsService(store domainCache.SummaryStore, recorder *counters.Recorder, namespace string) domainMetrics.IMetricsUsecase {
	return &metricsService{
		store:     store,
		recorder:  recorder,
		namespace: namespace,
	}
}

func (s *metricsService) Snapshot(ctx context.Context) (domainMetrics.Snapshot, error) {
	totalKeys, err := s.store.TotalKeys(ctx)
	if err != nil {
		return domainMetrics.Snapshot{}, err
	}

	usedMemory, err := s.store.UsedMemory(ctx)
	if err != nil {
		return domainMetrics.Snapshot{}, err
	}

	hits, misses := s.recorder.Snapshot()
	return domainMetrics.Snapshot{
		CacheHits:       hits,
		CacheMisses:     misses,
		TotalKeys:       totalKeys,
		UsedMemory:      usedMemory,
		UsedMemoryHuman: humanize.Bytes(uint64(usedMemory)),
		Uptime:          int64(s.recorder.Uptime().Seconds()),
	}, nil
}

func (s *metricsService) PurgeAll(ctx context.Context, scope domainMetrics.PurgeScope) error {
	switch scope {
	case domainMetrics.ScopeNamespace:
		deleted, err := s.store.DeleteByPrefix(ctx, s.namespace)
		if err != nil {
			return pkgError.AdminOperationError(fmt.Sprintf("namespaced purge failed: %v", err))
		}
		logrus.Infof("[ADMIN] purged %d keys under %s", deleted, s.namespace)
		return nil
	case domainMetrics.ScopeAll, "":
		if err := s.store.FlushAll(ctx); err != nil {
			return pkgError.AdminOperationError(fmt.Sprintf("flush failed: %v", err))
		}
		logrus.Info("[ADMIN] flushed the entire store key space")
		return nil
	default:
		return pkgError.ValidationError(fmt.Sprintf("unknown purge scope %q", scope))
	}
}

func (s *metricsService) ResetCounters(ctx context.Context) error {
	s.recorder.Reset()
	logrus.Info("[ADMIN] hit/miss counters reset")
	return nil
}
