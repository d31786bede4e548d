package ufserr

import "fmt"

// Error is a wrapper around a Status code with a customizable message, the
// same shape as disko.DriverError wrapping a syscall.Errno.
type Error struct {
	Status  Status
	message string
}

// Error implements the `error` interface.
func (e *Error) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.Status.String()
}

// Is lets callers use errors.Is(err, ufserr.New(StatusNotFound)) to match on
// status alone, regardless of message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == other.Status
}

// New creates an Error with the default message derived from the status.
func New(status Status) *Error {
	return &Error{Status: status, message: status.String()}
}

// Newf creates an Error from a status with a custom, formatted message.
func Newf(status Status, format string, args ...any) *Error {
	return &Error{
		Status:  status,
		message: fmt.Sprintf("%s: %s", status.String(), fmt.Sprintf(format, args...)),
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound         = New(StatusNotFound)
	ErrBadRequest       = New(StatusBadRequest)
	ErrOutOfSpace       = New(StatusOutOfSpace)
	ErrInternalError    = New(StatusInternalError)
	ErrInvalidInode     = New(StatusInvalidInode)
	ErrInvalidSize      = New(StatusInvalidSize)
	ErrInvalidType      = New(StatusInvalidType)
	ErrInvalidName      = New(StatusInvalidName)
	ErrDirNotEmpty      = New(StatusDirNotEmpty)
	ErrUnlinkNotAllowed = New(StatusUnlinkNotAllowed)
)
