package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WorkerPool bounds how many jobs execute concurrently. Submission never
// blocks the caller: each task waits on a semaphore slot in its own
// goroutine, so the queue is the set of parked goroutines. Capacity is a
// configuration parameter, not a hard-coded constant.
type WorkerPool struct {
	workers chan struct{}
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workers: make(chan struct{}, size),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Submit schedules a task on the pool. Tasks submitted after Stop are
// dropped.
func (p *WorkerPool) Submit(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.workers <- struct{}{}:
		case <-p.ctx.Done():
			zap.S().Named("worker_pool").Warn("pool stopped, dropping task")
			return
		}
		defer func() { <-p.workers }()

		task()
	}()
}

// Stop prevents queued tasks from starting and waits for running ones.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
}
