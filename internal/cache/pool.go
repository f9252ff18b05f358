package cache

import (
	"context"
	"sync"
	"time"

	"medialib/internal/logging"
	"medialib/internal/mediatypes"
	"medialib/internal/metrics"
)

// Task asks the pool to generate one artifact in the background.
type Task struct {
	Path    string
	Kind    mediatypes.FileKind
	ModTime time.Time
	Variant Variant
}

// Pool generates cache artifacts on a fixed set of background workers.
// The queue is unbounded; a burst of submissions never blocks the caller.
// Shutdown is cooperative: one nil sentinel per worker is queued and each
// worker exits when it dequeues one.
type Pool struct {
	cache   *Cache
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*Task
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewPool creates a Pool with the given worker count on top of the cache.
func NewPool(c *Cache, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{cache: c, workers: workers}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	logging.Info("cache pool starting %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a generation task. Already-cached artifacts and
// submissions after Stop are dropped silently; generating the same
// artifact twice is harmless but wasted work.
func (p *Pool) Submit(task *Task) {
	if task == nil {
		return
	}
	if p.cache.HasCached(task.Path, task.ModTime, task.Variant) {
		metrics.PoolJobsTotal.WithLabelValues("skipped").Inc()
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.queue = append(p.queue, task)
	metrics.PoolQueueDepth.Set(float64(len(p.queue)))
	p.cond.Signal()
}

// Stop drains in-flight work and shuts the workers down. Tasks still
// queued behind the sentinels are discarded. Blocks until every worker
// has exited.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for i := 0; i < p.workers; i++ {
		p.queue = append(p.queue, nil)
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	logging.Info("cache pool stopped")
}

// QueueDepth returns the number of queued tasks, sentinels excluded.
func (p *Pool) QueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	depth := 0
	for _, t := range p.queue {
		if t != nil {
			depth++
		}
	}
	return depth
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		task := p.next()
		if task == nil {
			logging.Debug("cache pool worker %d exiting", id)
			return
		}

		// The artifact may have appeared between submission and dequeue.
		if p.cache.HasCached(task.Path, task.ModTime, task.Variant) {
			metrics.PoolJobsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		if _, err := p.cache.Get(context.Background(), task.Path, task.Kind, task.Variant); err != nil {
			logging.Warn("background %s generation failed for %s: %v", task.Variant, task.Path, err)
			metrics.PoolJobsTotal.WithLabelValues("error").Inc()
			continue
		}
		metrics.PoolJobsTotal.WithLabelValues("success").Inc()
	}
}

// next blocks until a task or sentinel is available.
func (p *Pool) next() *Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		p.cond.Wait()
	}
	task := p.queue[0]
	p.queue = p.queue[1:]
	metrics.PoolQueueDepth.Set(float64(len(p.queue)))
	return task
}
