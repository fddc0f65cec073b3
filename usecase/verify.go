package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
	pkgError "github.com/Rutvik2598/PostPolice/pkg/error"
	"github.com/Rutvik2598/PostPolice/validations"
)

type verifyService struct {
	cache     domainCache.ICacheUsecase
	evidence  domainVerify.EvidenceFetcher
	generator domainVerify.Generator
}

// NewVerifyService wires the server-side lookup-or-compute flow: cache
// first, then evidence gathering and generation.
func NewVerifyService(cache domainCache.ICacheUsecase, evidence domainVerify.EvidenceFetcher, generator domainVerify.Generator) domainVerify.IVerifyUsecase {
	return &verifyService{
		cache:     cache,
		evidence:  evidence,
		generator: generator,
	}
}

func (s *verifyService) VerifyClaim(ctx context.Context, request domainVerify.VerifyRequest) (domainVerify.VerifyResult, error) {
	if err := validations.ValidateVerifyClaim(ctx, request); err != nil {
		return domainVerify.VerifyResult{}, err
	}

	check, err := s.cache.CheckSummary(ctx, domainCache.CheckRequest{Content: request.Content})
	if err != nil {
		return domainVerify.VerifyResult{}, err
	}
	if check.Hit {
		return domainVerify.VerifyResult{Verdict: check.Summary, Cached: true}, nil
	}

	sources, err := s.evidence.Search(ctx, request.Content)
	if err != nil {
		return domainVerify.VerifyResult{}, pkgError.UpstreamError(fmt.Sprintf("evidence search failed: %v", err))
	}

	verdict, err := s.generator.Generate(ctx, request.Content, sources)
	if err != nil {
		return domainVerify.VerifyResult{}, pkgError.UpstreamError(fmt.Sprintf("generation failed: %v", err))
	}
	if verdict == "" {
		return domainVerify.VerifyResult{}, pkgError.UpstreamError("generator returned an empty verdict")
	}

	// A failed cache write only costs a future regeneration; the verdict is
	// still returned.
	if err := s.cache.CacheSummary(ctx, domainCache.StoreRequest{Content: request.Content, Summary: verdict}); err != nil {
		logrus.WithError(err).Warn("[VERIFY] failed to cache fresh verdict")
	}

	return domainVerify.VerifyResult{Verdict: verdict, Cached: false, Sources: sources}, nil
}
