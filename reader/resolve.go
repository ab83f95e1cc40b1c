// File: reader/resolve.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Argument validation and descriptor resolution.

package reader

import (
	"reflect"

	"github.com/momentics/posixread/api"
)

// validate rejects programmer errors before any work is scheduled.
func validate(h api.Handle, size int) error {
	if isNilHandle(h) {
		return api.NewUsageError(api.MsgNotASocket)
	}
	if size <= 0 {
		return api.NewUsageError(api.MsgBadSize)
	}
	return nil
}

func isNilHandle(h api.Handle) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// resolve returns the descriptor of h or a BadStream error.
func resolve(h api.Handle) (int, error) {
	if !h.Readable() {
		return -1, api.NewBadStream(api.MsgNotReadable)
	}
	fd, err := h.Descriptor()
	if err != nil || fd < 0 {
		e := api.NewBadStream(api.MsgMalformedSocket)
		e.Err = err
		return -1, e
	}
	return fd, nil
}
