// Package api
// Author: momentics@gmail.com
//
// Generic result carried from a worker back to the caller.

package api

// Result wraps any payload or error.
type Result[T any] struct {
	Value T
	Err   error
}

// Outcome classifies the result.
func (r Result[T]) Outcome() Outcome {
	return Classify(r.Err)
}
