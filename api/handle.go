// File: api/handle.go
// Author: momentics <momentics@gmail.com>
//
// Defines the connection handle capability consumed by the reader. Concrete
// connection types are wrapped by adapters; the core never inspects them.

package api

// Handle is a duplex connection that exposes its OS-level descriptor.
type Handle interface {
	// Readable reports whether the read side of the connection is open.
	Readable() bool

	// Descriptor returns the underlying file descriptor. A value of 0 is
	// valid; implementations return an error instead of a negative value.
	Descriptor() (int, error)
}
