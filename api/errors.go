// Package api
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy for exact-length descriptor reads: usage errors raised at the
// call site and classified outcomes delivered through the completion path.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrReaderClosed    = fmt.Errorf("reader is closed")
)

// Messages carried by usage and bad-stream errors.
const (
	MsgNotASocket       = "first argument should be a socket"
	MsgBadSize          = "second argument should be a positive integer"
	MsgNotAFunction     = "third argument should be a function"
	MsgNotReadable      = "socket is not readable"
	MsgMalformedSocket  = "malformed socket object, cannot get file descriptor"
	msgEndOfStreamFmt   = "reached end of stream (read %d bytes)"
	msgSystemCallErrFmt = "%s failed: %s"
)

// Outcome is the terminal state of a read request.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeBadStream
	OutcomeEndOfFile
	OutcomeSystemError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBadStream:
		return "badStream"
	case OutcomeEndOfFile:
		return "endOfFile"
	case OutcomeSystemError:
		return "systemError"
	default:
		return "pending"
	}
}

// Error is a classified read failure. Kind is the only discriminator; there
// are no per-kind boolean flags.
type Error struct {
	Kind    Outcome
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the underlying OS error, if any.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new classified error.
func NewError(kind Outcome, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewBadStream reports a handle that cannot be read from.
func NewBadStream(message string) *Error {
	return NewError(OutcomeBadStream, message)
}

// NewEndOfFile reports a stream that closed after count bytes.
func NewEndOfFile(count int) *Error {
	return NewError(OutcomeEndOfFile, fmt.Sprintf(msgEndOfStreamFmt, count)).
		WithContext("bytes_read", count)
}

// NewSystemError reports a failed system call. The message embeds the OS
// diagnostic string; err stays reachable through errors.Is.
func NewSystemError(call string, err error) *Error {
	e := NewError(OutcomeSystemError, fmt.Sprintf(msgSystemCallErrFmt, call, err))
	e.Err = err
	return e
}

// Classify maps err to an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return OutcomeSystemError
}

// IsBadStream reports whether err is a BadStream outcome.
func IsBadStream(err error) bool { return err != nil && Classify(err) == OutcomeBadStream }

// IsEndOfFile reports whether err is an EndOfFile outcome.
func IsEndOfFile(err error) bool { return err != nil && Classify(err) == OutcomeEndOfFile }

// IsSystemError reports whether err is a SystemError outcome.
func IsSystemError(err error) bool {
	return err != nil && Classify(err) == OutcomeSystemError
}

// UsageError is a caller programming mistake. It is returned synchronously
// and never delivered through a completion path.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// Unwrap lets callers match with errors.Is(err, ErrInvalidArgument).
func (e *UsageError) Unwrap() error { return ErrInvalidArgument }

// NewUsageError creates a usage error with the given message.
func NewUsageError(message string) *UsageError {
	return &UsageError{Message: message}
}

// IsUsageError reports whether err is a usage error.
func IsUsageError(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}
