package worker

import (
	"context"
	"sync"
	"time"

	"invitation-canvas-editor/internal/logger"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

// WorkerPool runs follow-up writes that must not block or fail the request that queued them.
type WorkerPool struct {
	taskQueue chan job
	wg        sync.WaitGroup
	mu        sync.RWMutex // guards isClosing and the close of taskQueue
	isClosing bool
	timeout   time.Duration
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		taskQueue: make(chan job, 1000), // Buffer for 1000 pending tasks
		timeout:   10 * time.Second,
	}

	for range size {
		wp.wg.Add(1)
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done()
	for j := range wp.taskQueue {
		ctx, cancel := context.WithTimeout(context.Background(), wp.timeout)
		if err := j.run(ctx); err != nil {
			logger.Errorf("[WORKER] task %s failed: %v", j.name, err)
		}
		cancel()
	}
}

// Submit queues t and reports whether it was accepted.
func (wp *WorkerPool) Submit(name string, t Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.isClosing {
		logger.Warnf("[WORKER] task %s submitted during shutdown, dropping", name)
		return false
	}
	select {
	case wp.taskQueue <- job{name: name, run: t}:
		return true
	default:
		logger.Warnf("[WORKER] task queue full, dropping %s", name)
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.isClosing {
		wp.mu.Unlock()
		return
	}
	wp.isClosing = true
	close(wp.taskQueue)
	wp.mu.Unlock()
	wp.wg.Wait()
}
