// Package parallel runs independent jobs, such as rendering one swatch per
// gradient, on a fixed set of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines fed from one shared queue.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queue is shared by all workers.
	queue chan func()

	// done signals workers to stop.
	done chan struct{}

	wg sync.WaitGroup

	// mu is held for reading while a job is sent and for writing while
	// done is closed, so no job enters the queue after the workers drain it.
	mu sync.RWMutex

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), max(workers*2, 8)),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			work()
		}
	}
}

// drain executes whatever is still queued.
func (p *WorkerPool) drain() {
	for {
		select {
		case work := <-p.queue:
			work()
		default:
			return
		}
	}
}

// ExecuteAll runs every item and waits for all of them to finish.
// Items submitted after Close are dropped.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	var pending sync.WaitGroup
	for _, fn := range work {
		pending.Add(1)
		wrapped := func() {
			defer pending.Done()
			fn()
		}
		if !p.submit(wrapped) {
			pending.Done()
		}
	}
	pending.Wait()
}

// submit queues fn unless the pool is closed.
func (p *WorkerPool) submit(fn func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}
	p.queue <- fn
	return true
}

// Run calls fn(i) for i in [0, n) on the pool and waits for every call.
// The errors of all failed calls are joined in index order. Calls dropped
// because the pool was closed report ErrClosed.
func (p *WorkerPool) Run(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	errs := make([]error, n)
	work := make([]func(), n)
	for i := range work {
		errs[i] = ErrClosed
		work[i] = func() { errs[i] = fn(i) }
	}
	p.ExecuteAll(work)
	return errors.Join(errs...)
}

// ErrClosed is reported by Run for calls a closed pool did not run.
var ErrClosed = errors.New("parallel: pool closed")

// Close stops accepting work, finishes what is queued and stops the
// workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.mu.Lock()
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
