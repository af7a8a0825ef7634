// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool caps the number of tasks running concurrently, which keeps bursty
// work (e.g. uploading a batch of restaurant images to object storage) from
// spawning unbounded goroutines.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	err := workerpool.Each(pool, len(files), func(i int) error {
//	    return uploadOne(files[i])
//	})
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}

	// mu guards closed so a submit never races Shutdown onto a dead pool.
	// The tasks channel is never closed; workers drain it and exit via
	// closeCh instead, so a send cannot panic.
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with the given number of workers.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Queue twice the worker count so short bursts are absorbed.
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking. Returns ErrPoolFull when the queue
// is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a queue slot is available. Returns ErrPoolClosed
// after Shutdown. Workers keep consuming until the read lock is released,
// so the send cannot block forever.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.tasks <- task
	return nil
}

// Shutdown stops accepting new tasks, waits for queued and in-flight tasks
// to finish, and releases the workers. Safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		close(p.closeCh)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			safeRun(task)
		case <-p.closeCh:
			// Drain what was queued before the close, then exit.
			for {
				select {
				case task := <-p.tasks:
					safeRun(task)
				default:
					return
				}
			}
		}
	}
}

// safeRun recovers from panics so a bad task doesn't kill the worker.
func safeRun(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}

// Each runs fn for every index in [0, n) on the pool and waits for all of
// them to finish. It returns the first error encountered; the remaining
// tasks still run to completion.
func Each(p *Pool, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := p.SubmitWait(func() {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if first == nil {
				first = err
			}
			mu.Unlock()
		}
	}

	wg.Wait()
	return first
}
