package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/api/metrics"
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
	"github.com/callcoach/platform/internal/core/service"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Processor runs a single analysis job.
type Processor interface {
	Process(ctx context.Context, job ports.AnalysisJob) error
}

// Dispatcher routes analysis jobs to a fixed set of workers using consistent
// hashing on the call id, so jobs for one call never run concurrently in a
// single process.
type Dispatcher struct {
	workers []chan ports.AnalysisJob
	proc    Processor
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, proc Processor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AnalysisJob, numWorkers),
		proc:    proc,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AnalysisJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx aborts the workers at
// once, dropping whatever is still buffered; use Shutdown to drain instead.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Shutdown stops accepting jobs and lets the workers finish every job already
// buffered. It returns ctx.Err() if the drain outlives ctx; the workers keep
// running in that case until their own context ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue sends a job to the worker responsible for its call. It blocks only
// when that worker's buffer is full, and fails with domain.ErrQueueClosed
// after Shutdown.
func (d *Dispatcher) Enqueue(job ports.AnalysisJob) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return domain.ErrQueueClosed
	}
	idx := d.shardIndex(job.CallID)
	d.workers[idx] <- job
	metrics.AnalysisQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// shardIndex maps a call id deterministically to a worker index.
func (d *Dispatcher) shardIndex(callID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(callID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AnalysisJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.AnalysisQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.proc.Process(ctx, job)
			result := "done"
			switch {
			case errors.Is(err, service.ErrLockHeld):
				result = "skipped"
				d.log.Info().Str("call_id", job.CallID).Int("worker_id", id).Msg("analysis already running elsewhere")
			case err != nil:
				result = "error"
				d.log.Error().Err(err).
					Str("call_id", job.CallID).
					Int("worker_id", id).
					Msg("analysis processing failed")
			}
			metrics.AnalysesTotal.WithLabelValues(result).Inc()
			metrics.AnalysisDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}

var _ ports.JobQueue = (*Dispatcher)(nil)
