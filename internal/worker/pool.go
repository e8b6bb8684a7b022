package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// taskTimeout bounds a single task; API fetches never block the run forever
const taskTimeout = 30 * time.Second

// Task represents a unit of work to be executed
type Task func(ctx context.Context) error

// Metrics provides counters about the pool's completed work
type Metrics struct {
	TotalTasks     int64
	CompletedTasks int64
	FailedTasks    int64
}

// job pairs a task with a completion callback invoked after the pool has
// recorded the task's outcome
type job struct {
	task Task
	done func()
}

// Pool manages a fixed set of workers executing tasks concurrently
type Pool struct {
	maxWorkers int
	jobs       chan job
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	totalTasks     int64
	completedTasks int64
	failedTasks    int64
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		maxWorkers: maxWorkers,
		jobs:       make(chan job, maxWorkers*2),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop stops the worker pool and waits for the workers to exit
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

// GetMetrics returns the current counters for the pool
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		TotalTasks:     atomic.LoadInt64(&p.totalTasks),
		CompletedTasks: atomic.LoadInt64(&p.completedTasks),
		FailedTasks:    atomic.LoadInt64(&p.failedTasks),
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(j)
		case <-p.ctx.Done():
			// Drain whatever is already queued before exiting
			for {
				select {
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					p.run(j)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(j job) {
	taskCtx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := j.task(taskCtx); err != nil {
		atomic.AddInt64(&p.failedTasks, 1)
	} else {
		atomic.AddInt64(&p.completedTasks, 1)
	}

	// Counters are updated before the caller is released, so metrics read
	// after ExecuteTasks returns are consistent
	if j.done != nil {
		j.done()
	}
}

// ExecuteTasks runs a slice of tasks concurrently and blocks until every
// one of them has finished. Tasks are independent; one failing never
// cancels the others.
func (p *Pool) ExecuteTasks(tasks []Task) {
	atomic.AddInt64(&p.totalTasks, int64(len(tasks)))

	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, task := range tasks {
		select {
		case p.jobs <- job{task: task, done: wg.Done}:
		case <-p.ctx.Done():
			wg.Done()
		}
	}

	wg.Wait()
}
