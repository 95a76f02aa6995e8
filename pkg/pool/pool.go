package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/niels/poolhttpd/pkg/logging"
)

// ErrPoolSize is returned when a pool is constructed with fewer than one worker
var ErrPoolSize = errors.New("worker pool size must be at least 1")

// DefaultQueueDepth is the job queue capacity used by New
const DefaultQueueDepth = 64

// Job is one unit of work, bound to a single accepted connection.
// A submitted job is executed exactly once by exactly one worker.
type Job func()

// Pool runs jobs on a fixed set of workers consuming from a shared queue.
// The queue is a buffered channel: Submit does not block while capacity
// remains and blocks the producer once the queue is full.
type Pool struct {
	jobs     chan Job
	wg       sync.WaitGroup
	size     int
	shutdown sync.Once
}

// New creates a pool with the given number of workers and the default
// queue depth. The workers start immediately and block waiting for jobs.
func New(size int) (*Pool, error) {
	return NewWithQueueDepth(size, DefaultQueueDepth)
}

// NewWithQueueDepth creates a pool with an explicit job queue capacity.
// A size below 1 is a configuration error; no workers are started.
func NewWithQueueDepth(size, queueDepth int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrPoolSize, size)
	}
	if queueDepth < 0 {
		queueDepth = 0
	}

	p := &Pool{
		jobs: make(chan Job, queueDepth),
		size: size,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	logging.InfoWith("worker pool started", map[string]interface{}{
		"workers":     size,
		"queue_depth": queueDepth,
	})

	return p, nil
}

// Size returns the fixed number of workers in the pool
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues a job for execution by any idle worker.
// Jobs are delivered in submission order; which worker picks one up is
// not deterministic. Submit must not be called after Shutdown.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Shutdown closes the job queue and waits for every worker to finish.
// Closing the queue is the sole shutdown signal: workers complete their
// in-flight job, drain what remains, observe closure and exit.
func (p *Pool) Shutdown() {
	p.shutdown.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
	logging.Info("worker pool shut down")
}

// worker consumes jobs until the queue is closed
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.runJob(id, job)
	}
	logging.DebugWith("worker exiting", map[string]interface{}{
		"worker": id,
	})
}

// runJob executes a single job, containing any panic at the job boundary
// so one bad connection never takes down a worker.
func (p *Pool) runJob(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWith("worker recovered from job panic", map[string]interface{}{
				"worker": id,
				"panic":  fmt.Sprintf("%v", r),
			})
		}
	}()
	job()
}
