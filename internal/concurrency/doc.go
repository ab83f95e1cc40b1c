// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for the reader: a bounded worker pool that runs
// blocking descriptor reads off the caller's goroutine, and a completion loop
// that delivers callbacks on whichever goroutine runs it.
package concurrency
