package counters

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "postpolice_cache_lookups_total",
	Help: "Total number of summary cache lookups.",
}, []string{"status" /* hit | miss */})

// Recorder tracks lookup outcomes for one cache service instance. Increments
// are atomic, so concurrent lookups never lose updates. The Prometheus
// counters mirror every increment but are monotonic: Reset only zeroes the
// snapshot counters.
type Recorder struct {
	hits    atomic.Int64
	misses  atomic.Int64
	started time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{started: time.Now()}
}

// Hit records a lookup resolved from the store.
func (r *Recorder) Hit() {
	r.hits.Add(1)
	lookupsTotal.WithLabelValues("hit").Inc()
}

// Miss records a lookup not found, expired, or degraded by a store outage.
func (r *Recorder) Miss() {
	r.misses.Add(1)
	lookupsTotal.WithLabelValues("miss").Inc()
}

// Snapshot returns the current hit and miss totals.
func (r *Recorder) Snapshot() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

// Reset zeroes both counters. Stored entries are unaffected.
func (r *Recorder) Reset() {
	r.hits.Store(0)
	r.misses.Store(0)
}

// Uptime reports how long this recorder (and in practice the process) has
// been alive.
func (r *Recorder) Uptime() time.Duration {
	return time.Since(r.started)
}
