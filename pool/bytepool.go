// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"math/bits"

	"github.com/momentics/posixread/api"
)

// DefaultMaxPooledSize is the largest buffer kept for reuse (1 MiB).
const DefaultMaxPooledSize = 1 << 20

const minClassShift = 6 // 64 bytes

// Ensure compile-time interface compliance.
var _ api.BytePool = (*BytePool)(nil)

// BytePool hands out buffers from power-of-two size classes. Requests above
// maxPooled are plain allocations and are left to the GC on release.
type BytePool struct {
	classes   []*SyncPool[*[]byte]
	maxPooled int
}

// NewBytePool creates a pool that recycles buffers up to maxPooled bytes.
// maxPooled <= 0 selects DefaultMaxPooledSize.
func NewBytePool(maxPooled int) *BytePool {
	if maxPooled <= 0 {
		maxPooled = DefaultMaxPooledSize
	}
	top := classIndex(maxPooled)
	if 1<<(top+minClassShift) > maxPooled && top > 0 {
		top--
	}
	bp := &BytePool{maxPooled: 1 << (top + minClassShift)}
	bp.classes = make([]*SyncPool[*[]byte], top+1)
	for i := range bp.classes {
		size := 1 << (i + minClassShift)
		bp.classes[i] = NewSyncPool(func() *[]byte {
			b := make([]byte, size)
			return &b
		}).WithReset(func(p *[]byte) *[]byte {
			*p = (*p)[:cap(*p)]
			return p
		})
	}
	return bp
}

// MaxPooled returns the largest recyclable buffer size.
func (b *BytePool) MaxPooled() int { return b.maxPooled }

// Acquire returns a buffer of exactly n bytes. Contents are undefined.
func (b *BytePool) Acquire(n int) []byte {
	if n <= 0 {
		return nil
	}
	if n > b.maxPooled {
		return make([]byte, n)
	}
	p := b.classes[classIndex(n)].Get()
	return (*p)[:n]
}

// Release returns buf to its size class. Foreign or oversized buffers are dropped.
func (b *BytePool) Release(buf []byte) {
	c := cap(buf)
	if c == 0 || c > b.maxPooled || c&(c-1) != 0 || c < 1<<minClassShift {
		return
	}
	b.classes[classIndex(c)].Put(&buf)
}

// classIndex returns the smallest class whose size is >= n.
func classIndex(n int) int {
	if n <= 1<<minClassShift {
		return 0
	}
	return bits.Len(uint(n-1)) - minClassShift
}
