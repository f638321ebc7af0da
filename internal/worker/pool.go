// Package worker runs background jobs, mainly embedding work that should
// not block request handling.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/codemaplab/codemap/internal/logger"
)

// Job is a unit of background work. Name is used for logging only.
type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs submitted jobs on a fixed set of goroutines behind a buffered
// queue. Submit blocks when the queue is full.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	queue   int
	cancel  context.CancelFunc
	log     *logger.Logger
}

// NewPool creates a pool. Non-positive arguments fall back to one worker
// and a queue of 32.
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 32
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers exit when ctx is cancelled
// or the queue is closed by Stop.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i+1)
	}
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker shutting down (context cancelled)")
			return
		case job := <-p.jobs:
			if job == nil {
				log.Debug("worker shutting down (queue closed)")
				return
			}
			p.run(ctx, log, job)
		}
	}
}

func (p *Pool) run(ctx context.Context, log *logger.Logger, job Job) {
	jobLog := log.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
		jobLog.Error("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Info("job completed in %v", time.Since(start))
}

// Stop cancels in-flight jobs, closes the queue, and waits for all workers
// to exit.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// Submit enqueues a job, blocking if the queue is full.
func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
