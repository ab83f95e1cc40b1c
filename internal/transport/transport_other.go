//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

// File: internal/transport/transport_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stubs for platforms without fcntl(2) blocking-mode control.

package transport

import "github.com/momentics/posixread/api"

// MaxRW caps a single read call.
const MaxRW = 1 << 30

// BlockingGuard is a no-op on unsupported platforms.
type BlockingGuard struct{}

// SetBlocking always fails with api.ErrNotSupported.
func SetBlocking(fd int) (*BlockingGuard, error) {
	return nil, api.NewSystemError("fcntl", api.ErrNotSupported)
}

// WasNonBlocking always reports false.
func (g *BlockingGuard) WasNonBlocking() bool { return false }

// Restore does nothing.
func (g *BlockingGuard) Restore() error { return nil }

// ReadFull always fails with api.ErrNotSupported.
func ReadFull(fd int, buf []byte) (int, error) {
	return 0, api.NewSystemError("read", api.ErrNotSupported)
}
