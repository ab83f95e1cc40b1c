//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// File: internal/transport/blocking_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scoped blocking-mode guard over fcntl(2).

package transport

import (
	"github.com/momentics/posixread/api"
	"golang.org/x/sys/unix"
)

// BlockingGuard owns the obligation to put O_NONBLOCK back on a descriptor.
type BlockingGuard struct {
	fd             int
	wasNonBlocking bool
	restored       bool
}

// SetBlocking clears O_NONBLOCK on fd if it is set and returns a guard that
// restores it. A failed call leaves the descriptor mode untouched.
func SetBlocking(fd int) (*BlockingGuard, error) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return nil, api.NewSystemError("fcntl", err)
	}
	g := &BlockingGuard{fd: fd, wasNonBlocking: flags&unix.O_NONBLOCK != 0}
	if g.wasNonBlocking {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags&^unix.O_NONBLOCK); err != nil {
			return nil, api.NewSystemError("fcntl", err)
		}
	}
	return g, nil
}

// WasNonBlocking reports the descriptor mode observed by SetBlocking.
func (g *BlockingGuard) WasNonBlocking() bool { return g.wasNonBlocking }

// Restore re-applies O_NONBLOCK if SetBlocking cleared it. Only the first
// call does any work.
func (g *BlockingGuard) Restore() error {
	if g == nil || g.restored {
		return nil
	}
	g.restored = true
	if !g.wasNonBlocking {
		return nil
	}
	flags, err := unix.FcntlInt(uintptr(g.fd), unix.F_GETFL, 0)
	if err != nil {
		return api.NewSystemError("fcntl", err)
	}
	if _, err := unix.FcntlInt(uintptr(g.fd), unix.F_SETFL, flags|unix.O_NONBLOCK); err != nil {
		return api.NewSystemError("fcntl", err)
	}
	return nil
}
