// File: internal/concurrency/loop.go
// Package concurrency implements a completion loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Loop is the goroutine-side half of the completion path: workers Post
// callbacks, and whichever goroutine calls Run executes them in FIFO order.

package concurrency

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Loop queues callbacks and runs them on the goroutine that drives it.
type Loop struct {
	mu      sync.Mutex
	pending *queue.Queue // FIFO of func(), guarded by mu
	closed  bool
	notify  chan struct{}
	stopCh  chan struct{}
	running atomic.Bool

	dispatched atomic.Int64
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{
		pending: queue.New(),
		notify:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

// Post queues fn. It never runs fn on the calling goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.pending.Add(fn)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending.Length()
}

// Dispatched returns the number of callbacks run so far.
func (l *Loop) Dispatched() int64 {
	return l.dispatched.Load()
}

// RunOnce runs every callback queued at the time of the call and returns
// how many ran. Useful for callers that drive their own select loop.
func (l *Loop) RunOnce() int {
	n := 0
	for {
		fn := l.pop()
		if fn == nil {
			return n
		}
		fn()
		l.dispatched.Add(1)
		n++
	}
}

// Run dispatches callbacks until ctx is done or Stop is called. After Stop
// the remaining queue is drained before Run returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)
	for {
		l.RunOnce()
		select {
		case <-l.notify:
		case <-l.stopCh:
			l.RunOnce()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop rejects further posts and makes Run return after draining.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.stopCh)
}

// Notify exposes the wake-up channel for callers that multiplex the loop
// into their own select statement together with RunOnce.
func (l *Loop) Notify() <-chan struct{} {
	return l.notify
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending.Length() == 0 {
		return nil
	}
	return l.pending.Remove().(func())
}
