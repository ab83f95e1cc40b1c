// File: reader/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reader

import (
	"context"
	"sync"

	"github.com/momentics/posixread/api"
)

// Future is the pending result of one read.
type Future struct {
	done chan struct{}
	once sync.Once
	res  api.Result[[]byte]
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete stores res; only the first call has any effect.
func (f *Future) complete(res api.Result[[]byte]) {
	f.once.Do(func() {
		f.res = res
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Result blocks until the read finishes and returns its result.
func (f *Future) Result() api.Result[[]byte] {
	<-f.done
	return f.res
}

// Wait blocks until the read finishes or ctx is done. Giving up on ctx does
// not cancel the read; it keeps running until it reaches a terminal outcome.
func (f *Future) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-f.done:
		return f.res.Value, f.res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
