package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates no valid frame arrived within the time budget.
	ErrTimeout = errors.New("timeout")
	// ErrPayloadTooLarge indicates the payload doesn't fit into a single frame.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrShortWrite indicates the transport accepted fewer bytes than the frame.
	ErrShortWrite = errors.New("short write")
	// ErrShortMessage indicates a packet payload too small to hold a message header.
	ErrShortMessage = errors.New("message too short")
	// ErrInvalidFrame indicates the bytes are not a valid frame.
	ErrInvalidFrame = errors.New("invalid frame")
)

// TimeoutError is returned when an operation expecting a reply got none in time.
type TimeoutError struct {
	Op string
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return e.Op + " timeout"
}

// Timeout always returns true, compatible with net.Error.
func (e *TimeoutError) Timeout() bool {
	return true
}

// Temporary always returns true, compatible with net.Error.
func (e *TimeoutError) Temporary() bool {
	return true
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ProtocolError indicates the peer replied with something the operation
// doesn't expect.
type ProtocolError struct {
	Op     string
	Got    MsgID
	Detail string
}

// Error implements error.
func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: invalid reply %s: %s", e.Op, e.Got, e.Detail)
	}
	return fmt.Sprintf("%s: invalid reply %s", e.Op, e.Got)
}

// IsTimeout tells if err is caused by a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsProtocolError tells if err is a ProtocolError.
func IsProtocolError(err error) bool {
	var perr *ProtocolError
	return errors.As(err, &perr)
}
