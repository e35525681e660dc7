// Package concurrent runs fire-and-forget jobs on a fixed set of workers.
package concurrent

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/logging"
)

// Job is a unit of work. The context is the pool's base context and is
// cancelled only when Shutdown gives up waiting.
type Job func(ctx context.Context)

// PoolConfig holds configuration for a Pool.
type PoolConfig struct {
	Workers   int // defaults to NumCPU capped at 10
	QueueSize int // defaults to 64
	Logger    *logrus.Entry
}

// Metrics is a point-in-time view of pool activity.
type Metrics struct {
	Submitted int64
	Rejected  int64
	Completed int64
	Panicked  int64
	Queued    int
}

// Pool executes submitted jobs on a bounded queue. Submit never blocks: a
// full queue rejects the job.
type Pool struct {
	jobs   chan Job
	logger *logrus.Entry
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	submitted atomic.Int64
	rejected  atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
}

// NewPool starts the workers.
func NewPool(cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 10)
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:   make(chan Job, queue),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go p.worker(w)
	}
	return p
}

// Submit enqueues job and reports whether it was accepted.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.rejected.Add(1)
		return false
	}
	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return true
	default:
		p.rejected.Add(1)
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish. If ctx
// expires first, running jobs see their context cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return fmt.Errorf("pool shutdown: %w", ctx.Err())
	}
}

// Metrics returns current counters.
func (p *Pool) Metrics() Metrics {
	return Metrics{
		Submitted: p.submitted.Load(),
		Rejected:  p.rejected.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Queued:    len(p.jobs),
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

// run is the error boundary: a panicking job is logged and the worker
// keeps going.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			p.logger.WithFields(logrus.Fields{
				"worker": id,
				"panic":  fmt.Sprint(r),
				"stack":  string(debug.Stack()),
			}).Error("job panicked")
		}
		p.completed.Add(1)
	}()
	job(p.ctx)
}
