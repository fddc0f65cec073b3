package evidence

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rutvik2598/PostPolice/pkg/fetchpool"
)

func TestSearch_NoEndpointConfigured(t *testing.T) {
	fetcher := NewFetcher(Config{})

	sources, err := fetcher.Search(t.Context(), "The sky is blue.")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSearch_ParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "The sky is blue.", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"title":"NASA","url":"https://nasa.gov/sky","snippet":"Rayleigh scattering."},
			{"title":"Second","url":"https://example.com/2","snippet":"s2"},
			{"title":"Third","url":"https://example.com/3","snippet":"s3"},
			{"title":"Fourth","url":"https://example.com/4","snippet":"s4"}
		]}`)
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{SearchURL: server.URL, MaxResults: 2})

	sources, err := fetcher.Search(t.Context(), "The sky is blue.")
	require.NoError(t, err)
	require.Len(t, sources, 2, "results must be capped at MaxResults")
	assert.Equal(t, "NASA", sources[0].Title)
	assert.Equal(t, "Rayleigh scattering.", sources[0].Snippet)
}

func TestSearch_FillsMissingSnippetFromPage(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><nav>menu</nav><p>  The sky appears blue because of Rayleigh scattering.  </p></body></html>`)
	}))
	defer page.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results":[{"title":"Page","url":%q,"snippet":""}]}`, page.URL)
	}))
	defer search.Close()

	fetcher := NewFetcher(Config{SearchURL: search.URL})

	sources, err := fetcher.Search(t.Context(), "claim")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Contains(t, sources[0].Snippet, "Rayleigh scattering")
}

func TestSearch_PooledSnippetFetch(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><p>Paragraph for %s.</p></body></html>`, r.URL.Path)
	}))
	defer page.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results":[
			{"title":"One","url":"%[1]s/one","snippet":""},
			{"title":"Two","url":"%[1]s/two","snippet":""},
			{"title":"Three","url":"%[1]s/three","snippet":""}
		]}`, page.URL)
	}))
	defer search.Close()

	pool := fetchpool.NewPool(2, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)
	defer pool.Stop()

	fetcher := NewFetcher(Config{SearchURL: search.URL, Timeout: time.Second, Pool: pool})

	sources, err := fetcher.Search(t.Context(), "claim")
	require.NoError(t, err)
	require.Len(t, sources, 3)
	for i, source := range sources {
		assert.NotEmpty(t, source.Snippet, "source %d should get its snippet through the pool", i)
	}

	stats := pool.GetStats()
	assert.Equal(t, int64(3), stats.TotalDispatched)
	assert.Equal(t, int64(3), stats.TotalProcessed)
}

// Una cancelación del request no puede dejar workers escribiendo sobre el
// slice ya devuelto: Search espera a todos los fetches despachados.
func TestSearch_CancelledRequestWaitsForPooledFetches(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		fmt.Fprint(w, `<html><body><p>Slow page paragraph.</p></body></html>`)
	}))
	defer page.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results":[{"title":"Slow","url":%q,"snippet":""}]}`, page.URL)
	}))
	defer search.Close()

	pool := fetchpool.NewPool(2, 8)
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	pool.Start(poolCtx)
	defer pool.Stop()

	fetcher := NewFetcher(Config{SearchURL: search.URL, Timeout: time.Second, Pool: pool})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	sources, err := fetcher.Search(ctx, "claim")
	require.NoError(t, err)
	require.Len(t, sources, 1)

	// Search solo retorna cuando el worker terminó, así que el snippet ya
	// está completo y nadie más lo toca.
	snapshot := sources[0].Snippet
	assert.Contains(t, snapshot, "Slow page paragraph")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, snapshot, sources[0].Snippet)
}

func TestSearch_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := NewFetcher(Config{SearchURL: server.URL, Timeout: time.Second})

	_, err := fetcher.Search(t.Context(), "claim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

// Una página sin snippet extraíble no tumba la búsqueda completa.
func TestSearch_BadPageKeepsResult(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"title":"Gone","url":"http://127.0.0.1:1/dead","snippet":""}]}`)
	}))
	defer search.Close()

	fetcher := NewFetcher(Config{SearchURL: search.URL, Timeout: time.Second})

	sources, err := fetcher.Search(t.Context(), "claim")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Empty(t, sources[0].Snippet)
}
