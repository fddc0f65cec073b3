package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_JSONSnapshot(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.postJSON(t, "/cache-summary", `{"content":"a","summary":"s"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ta.postJSON(t, "/check-summary", `{"content":"a"}`)
	resp.Body.Close()
	resp = ta.postJSON(t, "/check-summary", `{"content":"b"}`)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

	var snapshot struct {
		CacheHits   int64 `json:"cacheHits"`
		CacheMisses int64 `json:"cacheMisses"`
		TotalKeys   int64 `json:"totalKeys"`
		UsedMemory  int64 `json:"usedMemory"`
		Uptime      int64 `json:"uptime"`
	}
	decodeBody(t, resp, &snapshot)
	assert.Equal(t, int64(1), snapshot.CacheHits)
	assert.Equal(t, int64(1), snapshot.CacheMisses)
	assert.Equal(t, int64(1), snapshot.TotalKeys)
	assert.Positive(t, snapshot.UsedMemory)
	assert.GreaterOrEqual(t, snapshot.Uptime, int64(0))
}

func TestMetrics_HTMLDashboardOnAcceptHeader(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml")

	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextHTML)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "<table"), "dashboard should render a table")
	assert.Contains(t, string(body), "Hit ratio")
}

func TestClearCache_EmptiesStoreKeepsCounters(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.postJSON(t, "/cache-summary", `{"content":"a","summary":"s"}`)
	resp.Body.Close()
	resp = ta.postJSON(t, "/check-summary", `{"content":"a"}`)
	resp.Body.Close()

	resp = ta.postJSON(t, "/clear-cache", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var admin struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &admin)
	assert.True(t, admin.Success)
	assert.NotEmpty(t, admin.Message)

	total, err := ta.store.TotalKeys(t.Context())
	require.NoError(t, err)
	assert.Zero(t, total)

	hits, _ := ta.recorder.Snapshot()
	assert.Equal(t, int64(1), hits, "purge must not touch counters")
}

func TestClearCache_UnknownScopeRejected(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.postJSON(t, "/clear-cache?scope=bogus", ``)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var admin struct {
		Success bool `json:"success"`
	}
	decodeBody(t, resp, &admin)
	assert.False(t, admin.Success)
}

func TestResetStats_ZeroesCountersKeepsEntries(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.postJSON(t, "/cache-summary", `{"content":"a","summary":"s"}`)
	resp.Body.Close()
	resp = ta.postJSON(t, "/check-summary", `{"content":"a"}`)
	resp.Body.Close()

	resp = ta.postJSON(t, "/reset-stats", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var admin struct {
		Success bool `json:"success"`
	}
	decodeBody(t, resp, &admin)
	assert.True(t, admin.Success)

	hits, misses := ta.recorder.Snapshot()
	assert.Zero(t, hits)
	assert.Zero(t, misses)

	total, err := ta.store.TotalKeys(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "reset must not evict entries")
}
