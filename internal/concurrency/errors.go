// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrExecutorClosed indicates the executor has been shut down
	ErrExecutorClosed = errors.New("executor is closed")

	// ErrLoopClosed indicates the completion loop has been stopped
	ErrLoopClosed = errors.New("loop is closed")

	// ErrLoopRunning indicates Run was called on a loop that is already running
	ErrLoopRunning = errors.New("loop is already running")
)
