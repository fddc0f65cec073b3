package fetchpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: TryDispatch no debe bloquear al caller aunque el job tarde
func TestPool_TryDispatchNonBlocking(t *testing.T) {
	pool := NewPool(2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	start := time.Now()
	ok := pool.TryDispatch(FetchJob{
		Host: "example.org",
		Handler: func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	})
	elapsed := time.Since(start)

	assert.True(t, ok)
	assert.Less(t, elapsed, 10*time.Millisecond, "TryDispatch debe ser no bloqueante")
}

// Test 2: Jobs del mismo host deben procesarse secuencialmente
func TestPool_SameHostSequentialProcessing(t *testing.T) {
	pool := NewPool(4, 100)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	var results []int
	var mu sync.Mutex
	done := make(chan error, 5)

	for i := 1; i <= 5; i++ {
		val := i
		require.True(t, pool.TryDispatch(FetchJob{
			Host: "en.wikipedia.org",
			Done: done,
			Handler: func(ctx context.Context) error {
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				results = append(results, val)
				mu.Unlock()
				return nil
			},
		}))
	}

	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 3, 4, 5}, results, "Jobs del mismo host deben procesarse en orden")
}

// Test 3: La cola llena descarta jobs en vez de bloquear
func TestPool_FullQueueDrops(t *testing.T) {
	pool := NewPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	defer pool.Stop()

	block := make(chan struct{})
	defer close(block)

	// Primer job ocupa al worker, el segundo llena la cola.
	require.True(t, pool.TryDispatch(FetchJob{
		Host: "a",
		Handler: func(ctx context.Context) error {
			<-block
			return nil
		},
	}))

	// Esperar a que el worker saque el primer job de la cola.
	require.Eventually(t, func() bool {
		return pool.GetStats().WorkerStats[pool.shardForHost("a")].IsProcessing
	}, time.Second, 5*time.Millisecond)

	assert.True(t, pool.TryDispatch(FetchJob{
		Host:    "a",
		Handler: func(ctx context.Context) error { return nil },
	}))
	assert.False(t, pool.TryDispatch(FetchJob{
		Host:    "a",
		Handler: func(ctx context.Context) error { return nil },
	}), "la cola de tamaño 1 debe descartar el tercer job")

	stats := pool.GetStats()
	assert.Positive(t, stats.TotalDropped)
}

// Test 4: Stop espera a los workers y rechaza jobs posteriores
func TestPool_StopRejectsNewJobs(t *testing.T) {
	pool := NewPool(2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)

	done := make(chan error, 1)
	require.True(t, pool.TryDispatch(FetchJob{
		Host:    "b",
		Done:    done,
		Handler: func(ctx context.Context) error { return nil },
	}))
	<-done

	pool.Stop()

	assert.False(t, pool.TryDispatch(FetchJob{
		Host:    "b",
		Handler: func(ctx context.Context) error { return nil },
	}))

	stats := pool.GetStats()
	assert.Equal(t, int64(1), stats.TotalProcessed)
}
