package verify

import "context"

// Source is one piece of evidence gathered for a claim.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type VerifyRequest struct {
	Content string `json:"content"`
}

// VerifyResult carries the verdict for a claim. Cached tells the caller
// whether the verdict came from the cache or was freshly generated.
type VerifyResult struct {
	Verdict string   `json:"verdict"`
	Cached  bool     `json:"cached"`
	Sources []Source `json:"sources,omitempty"`
}

// EvidenceFetcher gathers supporting sources for a claim from an external
// search provider.
type EvidenceFetcher interface {
	Search(ctx context.Context, claim string) ([]Source, error)
}

// Generator produces a verdict/summary for a claim given its evidence.
type Generator interface {
	Generate(ctx context.Context, claim string, evidence []Source) (string, error)
	Healthcheck(ctx context.Context) error
}

type IVerifyUsecase interface {
	// VerifyClaim runs the full lookup-or-compute flow: cache lookup, then
	// evidence gathering and generation on a miss, caching the fresh verdict
	// before returning it.
	VerifyClaim(ctx context.Context, request VerifyRequest) (VerifyResult, error)
}
