package receiver

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes receiver lifecycle errors.
type ErrorCode string

const (
	// ErrCodeBindFailed indicates the UDP socket could not be bound.
	ErrCodeBindFailed ErrorCode = "BIND_FAILED"

	// ErrCodeWorkerStopping indicates Start was called while a previous
	// run is still shutting down.
	ErrCodeWorkerStopping ErrorCode = "WORKER_STOPPING"

	// ErrCodeJoinTimeout indicates a stopping worker did not reach IDLE
	// within the join timeout.
	ErrCodeJoinTimeout ErrorCode = "JOIN_TIMEOUT"
)

// Error is a lifecycle error surfaced to the caller of Start.
type Error struct {
	Code    ErrorCode
	Message string
	Addr    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (addr=%s): %v", e.Code, e.Message, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s: %s (addr=%s)", e.Code, e.Message, e.Addr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsBindError returns true if the error is a socket bind failure.
func IsBindError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeBindFailed
	}
	return false
}

// IsStoppingError returns true if Start was rejected because the worker
// is still stopping.
func IsStoppingError(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeWorkerStopping
	}
	return false
}

// IsJoinTimeout returns true if waiting for IDLE timed out.
func IsJoinTimeout(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == ErrCodeJoinTimeout
	}
	return false
}

// ProtocolError describes a malformed datagram.
// The receive loop counts and drops these; they never reach callers of Start.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed datagram: %s: %v", e.Reason, e.Err)
	}
	return "malformed datagram: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
