// Package automation provides the remote-sync facade between the in-memory
// editor and the automations backend: loading flags, in-flight guards, and
// user-facing notifications for every remote operation.
package automation

import (
	"errors"
	"fmt"
)

// ErrOperationInFlight is returned when an operation of the same kind is
// already pending. There is no queueing: the caller retries once the
// loading flag clears.
var ErrOperationInFlight = errors.New("operation already in flight")

// InFlightError carries the operation kind that was rejected.
type InFlightError struct {
	Op Operation
}

func (e *InFlightError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrOperationInFlight)
}

func (e *InFlightError) Unwrap() error {
	return ErrOperationInFlight
}
