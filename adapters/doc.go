// Package adapters
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Glue between concrete connection types and api.Handle. Adapters expose the
// readable flag and the OS descriptor of net.Conn, *os.File and raw fd values
// so the reader never inspects connection internals.
package adapters
