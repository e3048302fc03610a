package workerpool

import (
	"sync"
	"sync/atomic"
)

// WorkerPool runs submitted tasks on a fixed number of workers. It bounds the
// concurrency of fan-out batches: submitting more tasks than workers have
// capacity for blocks until a worker frees up, so one large batch cannot
// spawn unbounded goroutines.
type WorkerPool struct {
	taskQueue chan func()
	wg        sync.WaitGroup
	stopOnce  sync.Once
	metrics   struct {
		tasksRun atomic.Int64
	}
}

func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	pool := &WorkerPool{
		taskQueue: make(chan func()),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// Submit hands a task to a worker, blocking until one is free. Callers own
// the pool lifecycle; submitting after Stop panics.
func (p *WorkerPool) Submit(task func()) {
	if task != nil {
		p.taskQueue <- task
	}
}

// Stop stops the pool and waits for in-flight tasks to finish.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.taskQueue)
	})
	p.wg.Wait()
}

// TasksRun returns the number of tasks executed so far.
func (p *WorkerPool) TasksRun() int64 {
	return p.metrics.tasksRun.Load()
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		task()
		p.metrics.tasksRun.Add(1)
	}
}
