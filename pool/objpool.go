// File: pool/objpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "sync"

// SyncPool is a typed sync.Pool. An optional reset hook runs on every Put
// so objects come back out in a known state.
type SyncPool[T any] struct {
	pool  *sync.Pool
	reset func(T) T
}

// NewSyncPool creates a pool that builds new objects with creator.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{New: func() any { return creator() }},
	}
}

// WithReset installs fn as the Put hook and returns sp.
func (sp *SyncPool[T]) WithReset(fn func(T) T) *SyncPool[T] {
	sp.reset = fn
	return sp
}

// Get returns a pooled or newly created object.
func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

// Put returns obj to the pool.
func (sp *SyncPool[T]) Put(obj T) {
	if sp.reset != nil {
		obj = sp.reset(obj)
	}
	sp.pool.Put(obj)
}
