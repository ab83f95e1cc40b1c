// Package reader
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exact-length reads from a connection's descriptor.
//
// A read takes exactly size bytes from the kernel socket buffer and leaves
// everything after them in place for a later consumer, e.g. a child process
// inheriting the socket or the next stage of a handshake. Argument mistakes
// are returned synchronously as *api.UsageError; every other outcome
// (success, BadStream, EndOfFile, SystemError) is delivered exactly once
// through a Future or a callback.
//
// The descriptor is switched to blocking mode for the duration of the read
// and restored afterwards. Reads run on a bounded worker pool, so the
// calling goroutine never blocks in read(2). Two concurrent reads on the same
// descriptor race on its mode flag and on the data and are not supported.
// There is no timeout: a read runs until it has size bytes, the peer closes,
// or read(2) fails.
package reader
