// File: internal/transport/exec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"errors"

	"github.com/momentics/posixread/api"
)

// Exec runs one bounded read on fd: force blocking mode, fill buf, restore
// the original mode. The restore always runs once SetBlocking succeeded.
//
// A restore failure turns a successful read into a system error. When the
// read had already failed, the read error is kept and the restore failure is
// attached to it under the "restore" context key.
func Exec(fd int, buf []byte) (err error) {
	guard, err := SetBlocking(fd)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := guard.Restore(); rerr != nil {
			err = mergeRestoreError(err, rerr)
		}
	}()
	_, err = ReadFull(fd, buf)
	return err
}

func mergeRestoreError(readErr, restoreErr error) error {
	if readErr == nil {
		return restoreErr
	}
	var e *api.Error
	if errors.As(readErr, &e) {
		e.WithContext("restore", restoreErr.Error())
		return e
	}
	return errors.Join(readErr, restoreErr)
}
