// Package worker runs grading jobs off a queue on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/pkg/logger"
)

// Grader computes the grade of one query. It must be safe for concurrent use.
type Grader interface {
	Evaluate(ctx context.Context, q model.Query) (model.Grade, error)
}

// Collector receives every outcome. It is called from several goroutines.
type Collector interface {
	Collect(ctx context.Context, o model.Outcome)
}

// CollectorFunc adapts a function to Collector.
type CollectorFunc func(ctx context.Context, o model.Outcome)

// Collect calls f.
func (f CollectorFunc) Collect(ctx context.Context, o model.Outcome) { f(ctx, o) }

// Queue is where workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Job
}

// Worker processes jobs until the queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	grader    Grader
	collector Collector
	name      string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, g Grader, c Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		grader:    g,
		collector: c,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job model.Job) {
	grade, err := w.grader.Evaluate(ctx, job.Query)
	if err != nil {
		w.logger.Debug(ctx, "grading failed", logger.Int("job", job.ID), logger.Error(err))
	}
	w.collector.Collect(ctx, model.Outcome{ID: job.ID, Grade: grade, Err: err})
}

// Pool manages several workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one means
// one worker per CPU.
func NewPool(workerCount int, q Queue, g Grader, c Collector, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	base := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(base)
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  base.logger.Named("worker-pool"),
	}
	for i := range pool.workers {
		workerOpts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, g, c, workerOpts...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained or the context passed to Start is done.
func (p *Pool) Wait() {
	for _, w := range p.workers {
		<-w.done
	}
}

// Shutdown stops all workers, waiting at most until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	var firstErr error
	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil && firstErr == nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			firstErr = err
		}
	}
	return firstErr
}
