// File: adapters/file_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"os"

	"github.com/momentics/posixread/api"
)

var _ api.Handle = (*FileHandle)(nil)

// FileHandle wraps an *os.File such as os.Stdin or a socket obtained via
// net.TCPConn.File. The descriptor is read through SyscallConn so the file
// keeps its poller registration; (*os.File).Fd would force blocking mode
// permanently.
type FileHandle struct {
	f *os.File
}

// FromFile wraps f.
func FromFile(f *os.File) *FileHandle {
	return &FileHandle{f: f}
}

// Readable reports whether the file is open.
func (h *FileHandle) Readable() bool {
	return h.f != nil && !isClosed(h.f)
}

// Descriptor returns the file descriptor.
func (h *FileHandle) Descriptor() (int, error) {
	if h.f == nil {
		return -1, ErrNoDescriptor
	}
	return descriptorOf(h.f)
}
