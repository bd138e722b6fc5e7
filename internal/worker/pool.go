// Package worker runs perft subtree counts on a fixed set of goroutines.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chessd/internal/chess"
	"github.com/lgbarn/chessd/internal/engine"
)

// Job is one root move to expand. Game is the position after Move has
// been played and is owned by the job.
type Job struct {
	Index int
	Move  chess.Move
	Game  *engine.Game
	Depth int
}

// Result is the node count of one job's subtree.
type Result struct {
	Index int
	Move  chess.Move
	Nodes uint64
}

// JobFunc computes the result of a job.
type JobFunc func(job Job) Result

// Pool distributes jobs to workers and collects their results.
type Pool struct {
	workers int
	buffer  int
	jobs    chan Job
	results chan Result
	run     JobFunc
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines. Values below 1 are
// ignored.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithBufferSize sets the job and result channel capacity.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.buffer = size
		}
	}
}

// NewPool creates a pool that runs fn for each submitted job.
// Default: 1 worker, buffer size of 10.
func NewPool(fn JobFunc, opts ...PoolOption) *Pool {
	p := &Pool{workers: 1, buffer: 10, run: fn}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.buffer)
	p.results = make(chan Result, p.buffer)
	return p
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if p.stopped.Load() {
			continue // Drain without running
		}
		p.results <- p.run(job)
	}
}

// Submit queues a job, blocking while the buffer is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// TrySubmit queues a job without blocking. It returns false if the buffer
// is full or the pool is stopped.
func (p *Pool) TrySubmit(job Job) bool {
	if p.stopped.Load() {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop makes workers skip queued jobs.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped returns true once Stop has been called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close ends submission, waits for the workers and then closes Results.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the channel of finished jobs, in completion order.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.workers
}
