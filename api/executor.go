// Package api
// Author: momentics
//
// Executor contract for dispatching blocking read jobs off the caller's goroutine.

package api

// Executor abstracts parallel task execution on a bounded set of workers.
type Executor interface {
	// Submit schedules task for execution.
	Submit(task func()) error

	// NumWorkers returns current number of worker routines.
	NumWorkers() int

	// Close stops accepting tasks and signals workers to exit.
	Close()
}

// Completer delivers completion callbacks on some execution context.
type Completer interface {
	// Post schedules fn to run on the completer's goroutine.
	Post(fn func()) error
}
