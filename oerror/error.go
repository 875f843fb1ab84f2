package oerror

import "fmt"

// SyncError is the error type returned by posesync packages for contract and decoding failures.
type SyncError struct {
	Err string
}

// New creates a SyncError, formatting the message with args when any are given.
func New(format string, args ...interface{}) *SyncError {
	if len(args) == 0 {
		return &SyncError{Err: format}
	}
	return &SyncError{Err: fmt.Sprintf(format, args...)}
}

func (e *SyncError) Error() string {
	return e.Err
}
