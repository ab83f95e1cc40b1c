// File: internal/concurrency/executor.go
// Package concurrency implements a bounded task executor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor runs tasks on a fixed number of worker goroutines fed from a single
// unbounded FIFO. Tasks are expected to block in read(2), so a worker is held
// for the whole lifetime of a task and there is no work stealing.

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"
)

// Executor manages a pool of worker goroutines.
type Executor struct {
	mu         sync.Mutex
	cond       *sync.Cond
	pending    *queue.Queue // FIFO of func(), guarded by mu
	closed     bool
	numWorkers int
	wg         sync.WaitGroup
	log        zerolog.Logger

	// statistics
	totalTasks     atomic.Int64
	completedTasks atomic.Int64
	panics         atomic.Int64
	busy           atomic.Int32
}

// NewExecutor creates a new Executor with the given number of workers.
// If numWorkers <= 0, defaults to runtime.NumCPU().
func NewExecutor(numWorkers int, log zerolog.Logger) *Executor {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	e := &Executor{
		pending:    queue.New(),
		numWorkers: numWorkers,
		log:        log,
	}
	e.cond = sync.NewCond(&e.mu)
	e.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		w := &worker{id: i, executor: e}
		go w.run()
	}
	return e
}

// Submit enqueues a task for execution, returning ErrExecutorClosed if executor is closed.
// It never blocks on worker availability.
func (e *Executor) Submit(task func()) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrExecutorClosed
	}
	e.pending.Add(task)
	e.totalTasks.Add(1)
	e.mu.Unlock()
	e.cond.Signal()
	return nil
}

// NumWorkers returns the number of workers.
func (e *Executor) NumWorkers() int {
	return e.numWorkers
}

// Close stops accepting tasks. Tasks already queued still run; workers exit
// once the queue is drained. Close does not wait for running tasks.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	e.cond.Broadcast()
}

// Wait blocks until every worker has exited. Only meaningful after Close.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Stats returns basic executor metrics.
func (e *Executor) Stats() map[string]int64 {
	e.mu.Lock()
	pending := int64(e.pending.Length())
	e.mu.Unlock()
	return map[string]int64{
		"total_tasks":     e.totalTasks.Load(),
		"completed_tasks": e.completedTasks.Load(),
		"pending_tasks":   pending,
		"busy_workers":    int64(e.busy.Load()),
		"num_workers":     int64(e.numWorkers),
		"panics":          e.panics.Load(),
	}
}

// next blocks until a task is available. ok is false once the executor is
// closed and drained.
func (e *Executor) next() (task func(), ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.pending.Length() == 0 && !e.closed {
		e.cond.Wait()
	}
	if e.pending.Length() == 0 {
		return nil, false
	}
	return e.pending.Remove().(func()), true
}

// worker represents a single executor goroutine.
type worker struct {
	id       int
	executor *Executor
}

func (w *worker) run() {
	defer w.executor.wg.Done()
	for {
		task, ok := w.executor.next()
		if !ok {
			return
		}
		w.executeTask(task)
	}
}

// executeTask runs the task and updates statistics, recovering from panics.
func (w *worker) executeTask(task func()) {
	e := w.executor
	e.busy.Add(1)
	defer func() {
		if r := recover(); r != nil {
			e.panics.Add(1)
			e.log.Error().Int("worker", w.id).Interface("panic", r).Msg("task panicked")
		}
		e.busy.Add(-1)
		e.completedTasks.Add(1)
	}()
	task()
}
