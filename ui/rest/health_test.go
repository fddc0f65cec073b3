package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rutvik2598/PostPolice/repository"
	"github.com/Rutvik2598/PostPolice/usecase"
)

type okProber struct{}

func (okProber) Healthcheck(ctx context.Context) error { return nil }

func newHealthApp(t *testing.T) *fiber.App {
	t.Helper()

	store := repository.NewMemorySummaryStore(0)
	t.Cleanup(store.Close)

	service := usecase.NewHealthService(store, okProber{}, t.TempDir(), time.Minute)

	app := fiber.New()
	InitRestHealth(app, service)
	return app
}

func TestHealth_AlwaysOK(t *testing.T) {
	app := newHealthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var probe struct {
		Status string `json:"status"`
		Store  string `json:"store"`
	}
	decodeBody(t, resp, &probe)
	assert.Equal(t, "ok", probe.Status)
	assert.Equal(t, "connected", probe.Store)
}

func TestHealth_HistoryAfterCheckAll(t *testing.T) {
	app := newHealthApp(t)

	req := httptest.NewRequest(http.MethodPost, "/health/check-all", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/health/history", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Code    string `json:"code"`
		Results []struct {
			EntityType string `json:"entity_type"`
			Status     string `json:"status"`
		} `json:"results"`
	}
	decodeBody(t, resp, &envelope)
	assert.Equal(t, "SUCCESS", envelope.Code)
	require.Len(t, envelope.Results, 2)

	seen := map[string]string{}
	for _, r := range envelope.Results {
		seen[r.EntityType] = r.Status
	}
	assert.Equal(t, "OK", seen["store"])
	assert.Equal(t, "OK", seen["generator"])
}
