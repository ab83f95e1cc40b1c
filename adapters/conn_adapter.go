// File: adapters/conn_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ConnHandle implements api.Handle over net.Conn via syscall.Conn.

package adapters

import (
	"errors"
	"net"
	"sync/atomic"
	"syscall"

	"github.com/momentics/posixread/api"
)

// ErrNoDescriptor is returned when a connection has no OS descriptor, e.g.
// an in-memory net.Pipe.
var ErrNoDescriptor = errors.New("connection does not expose a file descriptor")

// Ensure compile-time interface compliance.
var _ api.Handle = (*ConnHandle)(nil)

// ConnHandle wraps a net.Conn. The connection stays owned by the caller.
type ConnHandle struct {
	conn       net.Conn
	readClosed atomic.Bool
}

// FromConn wraps c.
func FromConn(c net.Conn) *ConnHandle {
	return &ConnHandle{conn: c}
}

// Conn returns the wrapped connection.
func (h *ConnHandle) Conn() net.Conn { return h.conn }

// Readable reports false after CloseRead or once the connection is closed.
func (h *ConnHandle) Readable() bool {
	if isNilValue(h.conn) || h.readClosed.Load() {
		return false
	}
	return !isClosed(h.conn)
}

// CloseRead shuts down the read side when the connection supports it and
// marks the handle not readable either way.
func (h *ConnHandle) CloseRead() error {
	h.readClosed.Store(true)
	if cr, ok := h.conn.(interface{ CloseRead() error }); ok {
		return cr.CloseRead()
	}
	return nil
}

// Descriptor returns the socket descriptor of the connection.
func (h *ConnHandle) Descriptor() (int, error) {
	if isNilValue(h.conn) {
		return -1, ErrNoDescriptor
	}
	return descriptorOf(h.conn)
}

// descriptorOf extracts the fd through RawConn.Control, which holds a
// reference on the descriptor for the duration of the callback only.
func descriptorOf(v any) (int, error) {
	sc, ok := v.(syscall.Conn)
	if !ok {
		return -1, ErrNoDescriptor
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	fd := -1
	if err := rc.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return -1, err
	}
	if fd < 0 {
		return -1, ErrNoDescriptor
	}
	return fd, nil
}

// isClosed reports whether v is a descriptor-backed connection that was
// already closed. Connections without a descriptor are never "closed" here.
func isClosed(v any) bool {
	_, err := descriptorOf(v)
	return err != nil && !errors.Is(err, ErrNoDescriptor) && !errors.Is(err, syscall.EINVAL)
}
