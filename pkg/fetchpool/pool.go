package fetchpool

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// FetchJob es un trabajo de descarga de página para un host concreto.
type FetchJob struct {
	Host    string
	Handler func(ctx context.Context) error
	Done    chan<- error
}

// PoolStats contiene métricas en tiempo real del pool.
type PoolStats struct {
	NumWorkers      int           `json:"num_workers"`
	QueueSize       int           `json:"queue_size"`
	TotalDispatched int64         `json:"total_dispatched"`
	TotalProcessed  int64         `json:"total_processed"`
	TotalDropped    int64         `json:"total_dropped"`
	TotalErrors     int64         `json:"total_errors"`
	WorkerStats     []WorkerStats `json:"worker_stats"`
}

// WorkerStats contiene métricas por worker individual.
type WorkerStats struct {
	WorkerID      int   `json:"worker_id"`
	QueueDepth    int   `json:"queue_depth"`
	IsProcessing  bool  `json:"is_processing"`
	JobsProcessed int64 `json:"jobs_processed"`
}

// Pool runs page fetches on a fixed set of workers. Jobs are sharded by host
// so that fetches against the same site run one at a time while different
// sites proceed in parallel.
type Pool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
}

type worker struct {
	id            int
	jobQueue      chan FetchJob
	ctx           context.Context
	cancel        context.CancelFunc
	isProcessing  int32
	jobsProcessed int64
	pool          *Pool
}

// NewPool crea un pool de workers de descarga.
func NewPool(numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 32
	}

	return &Pool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

// Start inicia todos los workers del pool.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan FetchJob, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[FETCH_POOL] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch envía un job al worker de su host (no bloqueante) y retorna si
// pudo encolarse. El caller decide qué hacer con los jobs rechazados.
func (p *Pool) TryDispatch(job FetchJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardForHost(job.Host)
	atomic.AddInt64(&p.totalDispatched, 1)

	sent := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if sent {
		return true
	}

	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[FETCH_POOL] Worker %d queue full (or stopped), dropping fetch for host %s", shard, job.Host)
	return false
}

// Stop detiene el pool de forma graceful.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		logrus.Info("[FETCH_POOL] Stopping workers...")

		for _, w := range p.workers {
			w.cancel()
			close(w.jobQueue)
		}

		p.wg.Wait()

		logrus.Info("[FETCH_POOL] All workers stopped")
	})
}

// shardForHost calcula el worker para un host usando hash consistente, de
// modo que un mismo sitio nunca reciba dos descargas simultáneas.
func (p *Pool) shardForHost(host string) int {
	h := fnv.New32a()
	h.Write([]byte(host))
	return int(h.Sum32() % uint32(p.numWorkers))
}

// GetStats retorna estadísticas en tiempo real del pool.
func (p *Pool) GetStats() PoolStats {
	workerStats := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		workerStats[i] = WorkerStats{
			WorkerID:      w.id,
			QueueDepth:    len(w.jobQueue),
			IsProcessing:  atomic.LoadInt32(&w.isProcessing) == 1,
			JobsProcessed: atomic.LoadInt64(&w.jobsProcessed),
		}
	}

	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
		WorkerStats:     workerStats,
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	logrus.Debugf("[FETCH_POOL] Worker %d started", w.id)

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				logrus.Debugf("[FETCH_POOL] Worker %d shutting down", w.id)
				return
			}
			w.process(job)

		case <-w.ctx.Done():
			logrus.Debugf("[FETCH_POOL] Worker %d context cancelled, draining queue...", w.id)
			w.drainQueue()
			return
		}
	}
}

func (w *worker) process(job FetchJob) {
	atomic.StoreInt32(&w.isProcessing, 1)

	var err error
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&w.pool.totalErrors, 1)
			logrus.Errorf("[FETCH_POOL] Worker %d panic for host %s: %v", w.id, job.Host, r)
			err = fmt.Errorf("fetch panicked: %v", r)
		}
		atomic.StoreInt32(&w.isProcessing, 0)
		atomic.AddInt64(&w.jobsProcessed, 1)
		atomic.AddInt64(&w.pool.totalProcessed, 1)
		if job.Done != nil {
			job.Done <- err
		}
	}()

	err = job.Handler(w.ctx)
	if err != nil {
		atomic.AddInt64(&w.pool.totalErrors, 1)
		logrus.WithError(err).Debugf("[FETCH_POOL] Worker %d fetch failed for host %s", w.id, job.Host)
	}
}

// drainQueue procesa jobs pendientes antes del shutdown para no dejar
// callers esperando en Done.
func (w *worker) drainQueue() {
	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			w.process(job)
		default:
			return
		}
	}
}
