package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	"github.com/Rutvik2598/PostPolice/pkg/counters"
	"github.com/Rutvik2598/PostPolice/pkg/fingerprint"
	"github.com/Rutvik2598/PostPolice/validations"
)

type cacheService struct {
	store     domainCache.SummaryStore
	recorder  *counters.Recorder
	ttl       time.Duration
	namespace string
}

// NewCacheService creates the cache service. The recorder is shared with the
// metrics service so counters and cached state stay independently resettable.
func NewCacheService(store domainCache.SummaryStore, recorder *counters.Recorder, ttl time.Duration, namespace string) domainCache.ICacheUsecase {
	return &cacheService{
		store:     store,
		recorder:  recorder,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (s *cacheService) CheckSummary(ctx context.Context, request domainCache.CheckRequest) (domainCache.CheckResult, error) {
	if err := validations.ValidateCheckSummary(ctx, request); err != nil {
		return domainCache.CheckResult{}, err
	}

	key := fingerprint.Key(s.namespace, request.Content)
	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		// The cache is a pure optimization: an unreachable store degrades to
		// a miss so the caller falls through to live generation.
		logrus.WithError(err).Warn("[CACHE] lookup failed, degrading to miss")
		s.recorder.Miss()
		return domainCache.CheckResult{Hit: false}, nil
	}

	if !found {
		s.recorder.Miss()
		return domainCache.CheckResult{Hit: false}, nil
	}

	s.recorder.Hit()
	return domainCache.CheckResult{Hit: true, Summary: value}, nil
}

func (s *cacheService) CacheSummary(ctx context.Context, request domainCache.StoreRequest) error {
	if err := validations.ValidateCacheSummary(ctx, request); err != nil {
		return err
	}

	key := fingerprint.Key(s.namespace, request.Content)
	if err := s.store.Set(ctx, key, request.Summary, s.ttl); err != nil {
		logrus.WithError(err).Warn("[CACHE] write failed; the cost is a future miss")
		return err
	}
	return nil
}
