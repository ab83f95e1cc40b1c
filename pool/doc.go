// Package pool
// Author: momentics <momentics@gmail.com>
//
// Size-classed byte buffers for read requests. A request acquires its buffer
// once, up front; the buffer returns to the pool only when the read fails.
// See bytepool.go and objpool.go for implementation details.
package pool
