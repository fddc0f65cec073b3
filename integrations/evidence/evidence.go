package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
	"github.com/Rutvik2598/PostPolice/pkg/fetchpool"
)

const (
	// maxSnippetLen bounds the text extracted from a fetched page.
	maxSnippetLen = 300
	// maxBodyBytes bounds how much of a page is read while building a snippet.
	maxBodyBytes = 1 << 20
)

// Config holds the configuration for the evidence fetcher.
type Config struct {
	// SearchURL is the search endpoint; the claim is passed as the q query
	// parameter and a JSON body of {results: [{title, url, snippet}]} is
	// expected back.
	SearchURL  string
	Timeout    time.Duration
	MaxResults int
	// Pool, when set, runs page fetches host-sharded so one slow site never
	// serializes the others. Without it fetches run inline.
	Pool *fetchpool.Pool
}

// Fetcher gathers evidence for claims from an HTTP search provider, filling
// in missing snippets by fetching the result pages. It implements
// verify.EvidenceFetcher.
type Fetcher struct {
	httpClient *http.Client
	searchURL  string
	maxResults int
	pool       *fetchpool.Pool
}

func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		searchURL:  cfg.SearchURL,
		maxResults: maxResults,
		pool:       cfg.Pool,
	}
}

type searchResponse struct {
	Results []domainVerify.Source `json:"results"`
}

// Search queries the provider for the claim. When no search endpoint is
// configured it reports empty evidence instead of failing, so verification
// can still run on the model's own knowledge.
func (f *Fetcher) Search(ctx context.Context, claim string) ([]domainVerify.Source, error) {
	if f.searchURL == "" {
		logrus.Debug("[EVIDENCE] no search endpoint configured, skipping evidence gathering")
		return nil, nil
	}

	endpoint, err := url.Parse(f.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search url: %w", err)
	}
	query := endpoint.Query()
	query.Set("q", claim)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	sources := parsed.Results
	if len(sources) > f.maxResults {
		sources = sources[:f.maxResults]
	}

	f.fillSnippets(ctx, sources)

	return sources, nil
}

// fillSnippets completes sources that came back without a snippet. With a
// pool the fetches run concurrently, sharded by host; a dropped or failed
// fetch just leaves the snippet empty.
func (f *Fetcher) fillSnippets(ctx context.Context, sources []domainVerify.Source) {
	fetchOne := func(ctx context.Context, i int) error {
		snippet, err := f.snippetFromPage(ctx, sources[i].URL)
		if err != nil {
			logrus.WithError(err).Debugf("[EVIDENCE] could not extract snippet from %s", sources[i].URL)
			return nil
		}
		sources[i].Snippet = snippet
		return nil
	}

	if f.pool == nil {
		for i := range sources {
			if sources[i].Snippet == "" {
				_ = fetchOne(ctx, i)
			}
		}
		return
	}

	done := make(chan error, len(sources))
	pending := 0
	for i := range sources {
		if sources[i].Snippet != "" {
			continue
		}
		idx := i
		dispatched := f.pool.TryDispatch(fetchpool.FetchJob{
			Host: hostOf(sources[idx].URL),
			Done: done,
			Handler: func(poolCtx context.Context) error {
				return fetchOne(poolCtx, idx)
			},
		})
		if dispatched {
			pending++
		}
	}

	// Workers run on the pool's context and always signal Done, so waiting
	// them all out is bounded by the HTTP client timeout. Returning early on
	// ctx cancellation is not an option: the slice must not be mutated after
	// this function returns.
	for ; pending > 0; pending-- {
		<-done
	}
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	return parsed.Host
}

// snippetFromPage fetches a result page and extracts its leading paragraph
// text.
func (f *Fetcher) snippetFromPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(http.MaxBytesReader(nil, resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(text)
		return b.Len() < maxSnippetLen
	})

	snippet := b.String()
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen]
	}
	if snippet == "" {
		return "", fmt.Errorf("page has no paragraph text")
	}
	return snippet, nil
}

var _ domainVerify.EvidenceFetcher = (*Fetcher)(nil)
