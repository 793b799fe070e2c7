package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently. Both
// channels are small relative to a batch, so submission must run
// concurrently with Wait draining results: submit from a goroutine, call
// Close when done, and collect with Wait.
type Pool struct {
	workers      int
	jobQueue     chan Job
	results      chan Result
	wg           sync.WaitGroup
	ctx          context.Context
	cancelFunc   context.CancelFunc
	closeJobOnce sync.Once
	closeResOnce sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// The pool's lifecycle derives from ctx: cancelling it stops the workers
// and the jobs they are running.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution. It blocks while the
// queue is full and drops the job once the pool's context is cancelled.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Close marks submission as finished. No Submit may follow.
func (p *Pool) Close() {
	p.closeJobOnce.Do(func() {
		close(p.jobQueue)
	})
}

// Wait drains results until every worker has exited, then returns them.
// Workers exit when the queue is closed and empty, so the submitting side
// must call Close; running Wait alongside submission is what keeps large
// batches from filling both channels.
func (p *Pool) Wait() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeResOnce.Do(func() {
		close(p.results)
	})
}
