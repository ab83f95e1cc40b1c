//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// File: internal/transport/readfull_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded read loop over read(2).

package transport

import (
	"runtime"

	"github.com/momentics/posixread/api"
	"golang.org/x/sys/unix"
)

// MaxRW caps a single read(2). Darwin and FreeBSD reject 2GB+ reads on
// stream sockets; 1GB keeps subsequent reads aligned.
const MaxRW = 1 << 30

// ReadFull reads exactly len(buf) bytes from fd, never asking the kernel for
// more than what is still missing. It returns the number of bytes read and a
// classified *api.Error when fewer than len(buf) bytes were collected.
//
// EINTR and EAGAIN are retried. EAGAIN is not expected once the descriptor
// is blocking, but a receive timeout on the socket can still produce it.
func ReadFull(fd int, buf []byte) (int, error) {
	count := 0
	for count < len(buf) {
		chunk := buf[count:]
		if len(chunk) > MaxRW {
			chunk = chunk[:MaxRW]
		}
		n, err := unix.Read(fd, chunk)
		if err != nil {
			switch err {
			case unix.EINTR:
				continue
			case unix.EAGAIN:
				runtime.Gosched()
				continue
			}
			return count, api.NewSystemError("read", err)
		}
		if n == 0 {
			return count, api.NewEndOfFile(count)
		}
		count += n
	}
	return count, nil
}
