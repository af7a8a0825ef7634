package workerpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.SubmitWait(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, int64(20), atomic.LoadInt64(&counter))
}

func TestPoolBackpressure(t *testing.T) {
	p := New(1) // 1 worker, queue of 2
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the worker and wait until the task is actually running, so
	// exactly two queue slots remain regardless of scheduling.
	require.NoError(t, p.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	var accepted int
	for i := 0; i < 10; i++ {
		err := p.Submit(func() { <-block })
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, ErrPoolFull)
	}
	close(block)

	assert.Equal(t, 2, accepted)
}

func TestPoolSubmitDuringShutdown(t *testing.T) {
	p := New(2)

	// Hammer the pool from several producers while it shuts down; every
	// submit must come back nil or ErrPoolClosed, never panic.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if err := p.SubmitWait(func() {}); err != nil {
					assert.ErrorIs(t, err, ErrPoolClosed)
					return
				}
			}
		}()
	}

	time.Sleep(2 * time.Millisecond)
	p.Shutdown()
	close(stop)
	wg.Wait()

	assert.ErrorIs(t, p.SubmitWait(func() {}), ErrPoolClosed)
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(2)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
	assert.ErrorIs(t, p.SubmitWait(func() {}), ErrPoolClosed)
}

func TestPoolShutdownWaitsForInflight(t *testing.T) {
	p := New(2)

	var done int64
	for i := 0; i < 4; i++ {
		require.NoError(t, p.SubmitWait(func() {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&done, 1)
		}))
	}
	p.Shutdown()

	assert.Equal(t, int64(4), atomic.LoadInt64(&done))
}

func TestPoolRecoversFromPanic(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.SubmitWait(func() { panic("boom") }))

	var ran int64
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.SubmitWait(func() {
		defer wg.Done()
		atomic.AddInt64(&ran, 1)
	}))
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestEachCollectsFirstError(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	boom := errors.New("boom")
	var ran int64
	err := Each(p, 10, func(i int) error {
		atomic.AddInt64(&ran, 1)
		if i == 3 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	// Every task ran even though one failed.
	assert.Equal(t, int64(10), atomic.LoadInt64(&ran))
}

func TestEachEmpty(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	assert.NoError(t, Each(p, 0, func(int) error { return nil }))
}
