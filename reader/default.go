// File: reader/default.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package-level entry point backed by a lazily created Reader.

package reader

import (
	"sync"

	"github.com/momentics/posixread/adapters"
)

var (
	defaultOnce   sync.Once
	defaultReader *Reader
)

// Default returns the process-wide Reader used by Read. It is created on
// first use with default options and is never closed.
func Default() *Reader {
	defaultOnce.Do(func() {
		defaultReader = New()
	})
	return defaultReader
}

// Read reads exactly size bytes from conn and calls fn exactly once on the
// default Reader's completion goroutine. conn may be an api.Handle, a
// net.Conn exposing syscall.Conn, or an *os.File. Argument mistakes are
// returned and fn is not called.
func Read(conn any, size int, fn func(err error, buf []byte)) error {
	h, err := adapters.Wrap(conn)
	if err != nil {
		return err
	}
	return Default().ReadFunc(h, size, fn)
}
