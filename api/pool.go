// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the byte allocator used for request buffers.

package api

// BytePool provides []byte buffers for read requests.
type BytePool interface {
	// Acquire returns a slice of exactly n bytes.
	Acquire(n int) []byte

	// Release returns a buffer to the pool. Buffers handed to a caller on
	// success are never released.
	Release(buf []byte)
}
