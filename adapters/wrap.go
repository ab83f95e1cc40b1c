// File: adapters/wrap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wrap maps loosely typed values onto api.Handle for call sites that accept
// "anything connection-like".

package adapters

import (
	"net"
	"os"
	"reflect"

	"github.com/momentics/posixread/api"
)

// Wrap returns a Handle for v. Values that are not an api.Handle, net.Conn
// or *os.File are rejected with a usage error.
func Wrap(v any) (api.Handle, error) {
	switch h := v.(type) {
	case nil:
		return nil, api.NewUsageError(api.MsgNotASocket)
	case api.Handle:
		return h, nil
	case net.Conn:
		if isNilValue(h) {
			return nil, api.NewUsageError(api.MsgNotASocket)
		}
		return FromConn(h), nil
	case *os.File:
		if h == nil {
			return nil, api.NewUsageError(api.MsgNotASocket)
		}
		return FromFile(h), nil
	default:
		return nil, api.NewUsageError(api.MsgNotASocket)
	}
}

// isNilValue reports whether v is nil or an interface holding a nil pointer,
// e.g. a (*net.TCPConn)(nil) stored in a net.Conn.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
