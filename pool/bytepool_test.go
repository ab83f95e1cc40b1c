package pool_test

import (
	"testing"

	"github.com/momentics/posixread/pool"
	"github.com/stretchr/testify/assert"
)

func TestBytePool_ExactLength(t *testing.T) {
	bp := pool.NewBytePool(0)
	for _, n := range []int{1, 10, 63, 64, 65, 1000, 90000, pool.DefaultMaxPooledSize} {
		buf := bp.Acquire(n)
		assert.Len(t, buf, n)
		assert.GreaterOrEqual(t, cap(buf), n)
		bp.Release(buf)
	}
}

func TestBytePool_OversizedBypassesPool(t *testing.T) {
	bp := pool.NewBytePool(4096)
	assert.Equal(t, 4096, bp.MaxPooled())

	buf := bp.Acquire(5000)
	assert.Len(t, buf, 5000)
	assert.Equal(t, 5000, cap(buf))
	bp.Release(buf) // dropped, must not panic
}

func TestBytePool_ReleaseIgnoresForeignBuffers(t *testing.T) {
	bp := pool.NewBytePool(0)
	bp.Release(nil)
	bp.Release(make([]byte, 100))
	assert.Len(t, bp.Acquire(100), 100)
}

func TestBytePool_NonPowerOfTwoLimit(t *testing.T) {
	bp := pool.NewBytePool(3000)
	assert.Equal(t, 2048, bp.MaxPooled())
	assert.Len(t, bp.Acquire(2048), 2048)
	assert.Len(t, bp.Acquire(2049), 2049)
	assert.Equal(t, 0, len(bp.Acquire(0)))
}

func TestSyncPool_ResetOnPut(t *testing.T) {
	sp := pool.NewSyncPool(func() *[]int { s := make([]int, 0, 4); return &s }).
		WithReset(func(p *[]int) *[]int {
			*p = (*p)[:0]
			return p
		})

	p := sp.Get()
	*p = append(*p, 1, 2, 3)
	sp.Put(p)

	// sync.Pool may drop the object; either way Get must see an empty slice
	assert.Empty(t, *sp.Get())
}
