// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw descriptor I/O for exact-length reads. SetBlocking brackets a read with
// a scoped O_NONBLOCK change, ReadFull accumulates exactly len(buf) bytes, and
// Exec composes the two. Platform code is separated by build tags; unsupported
// platforms report api.ErrNotSupported as a system error.

package transport
