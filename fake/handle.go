// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the reader's interfaces.

package fake

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/posixread/api"
)

// Handle is a scriptable api.Handle.
type Handle struct {
	ReadableFlag bool
	FD           int
	Err          error

	readableCalls   atomic.Int32
	descriptorCalls atomic.Int32
}

// NewHandle returns a readable handle for fd.
func NewHandle(fd int) *Handle {
	return &Handle{ReadableFlag: true, FD: fd}
}

// Readable implements api.Handle.
func (h *Handle) Readable() bool {
	h.readableCalls.Add(1)
	return h.ReadableFlag
}

// Descriptor implements api.Handle. Err takes precedence over FD.
func (h *Handle) Descriptor() (int, error) {
	h.descriptorCalls.Add(1)
	if h.Err != nil {
		return -1, h.Err
	}
	return h.FD, nil
}

// DescriptorCalls returns how many times Descriptor was called.
func (h *Handle) DescriptorCalls() int { return int(h.descriptorCalls.Load()) }

// ReadableCalls returns how many times Readable was called.
func (h *Handle) ReadableCalls() int { return int(h.readableCalls.Load()) }

// BytePool is an api.BytePool that records acquisitions and releases.
type BytePool struct {
	mu       sync.Mutex
	acquired int
	released [][]byte
}

// Acquire implements api.BytePool.
func (p *BytePool) Acquire(n int) []byte {
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return make([]byte, n)
}

// Release implements api.BytePool.
func (p *BytePool) Release(buf []byte) {
	p.mu.Lock()
	p.released = append(p.released, buf)
	p.mu.Unlock()
}

// Acquired returns the number of Acquire calls.
func (p *BytePool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}

// Released returns the number of Release calls.
func (p *BytePool) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.released)
}

var (
	_ api.Handle   = (*Handle)(nil)
	_ api.BytePool = (*BytePool)(nil)
)
