package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rutvik2598/PostPolice/domains/health"
)

func newHealthForTest(t *testing.T, store *fakeStore, generator *fakeGenerator) health.IHealthUsecase {
	t.Helper()
	return NewHealthService(store, generator, t.TempDir(), time.Hour)
}

func TestHealthService_ProbeNeverFails(t *testing.T) {
	store := newFakeStore()
	service := newHealthForTest(t, store, &fakeGenerator{})

	probe := service.Probe(t.Context())
	assert.Equal(t, "ok", probe.Status)
	assert.Equal(t, "connected", probe.Store)

	store.failing = true
	probe = service.Probe(t.Context())
	assert.Equal(t, "ok", probe.Status)
	assert.Equal(t, "disconnected", probe.Store)
}

func TestHealthService_CheckStoreRecordsHistory(t *testing.T) {
	store := newFakeStore()
	service := newHealthForTest(t, store, &fakeGenerator{})
	ctx := t.Context()

	record, err := service.CheckStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, health.StatusOk, record.Status)
	assert.Equal(t, health.EntityStore, record.EntityType)

	history, err := service.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, health.EntityStore, history[0].EntityType)
	assert.NotEmpty(t, history[0].ID)
}

func TestHealthService_CheckAllCoversBothEntities(t *testing.T) {
	store := newFakeStore()
	store.failing = true
	service := newHealthForTest(t, store, &fakeGenerator{})
	ctx := t.Context()

	records, err := service.CheckAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byEntity := map[health.EntityType]health.HealthRecord{}
	for _, r := range records {
		byEntity[r.EntityType] = r
	}
	assert.Equal(t, health.StatusError, byEntity[health.EntityStore].Status)
	assert.Equal(t, health.StatusOk, byEntity[health.EntityGenerator].Status)
}

// Checks repetidos sobre la misma entidad actualizan el registro existente.
func TestHealthService_UpsertKeepsOneRecordPerEntity(t *testing.T) {
	store := newFakeStore()
	service := newHealthForTest(t, store, &fakeGenerator{})
	ctx := t.Context()

	_, err := service.CheckStore(ctx)
	require.NoError(t, err)
	store.failing = true
	_, err = service.CheckStore(ctx)
	require.NoError(t, err)

	history, err := service.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, health.StatusError, history[0].Status)
	assert.NotNil(t, history[0].LastSuccess, "the earlier OK check must persist as last_success")
}
