// File: adapters/fd_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"fmt"

	"github.com/momentics/posixread/api"
)

var _ api.Handle = FDHandle{}

// FDHandle is a raw descriptor with an explicit readable flag, for
// descriptors inherited from a parent process or created with socketpair(2).
type FDHandle struct {
	FD        int
	IsReading bool
}

// FromFD wraps a raw descriptor.
func FromFD(fd int, readable bool) FDHandle {
	return FDHandle{FD: fd, IsReading: readable}
}

// Readable returns the flag given at construction.
func (h FDHandle) Readable() bool { return h.IsReading }

// Descriptor returns the descriptor, rejecting negative values.
func (h FDHandle) Descriptor() (int, error) {
	if h.FD < 0 {
		return -1, fmt.Errorf("invalid descriptor %d: %w", h.FD, ErrNoDescriptor)
	}
	return h.FD, nil
}
