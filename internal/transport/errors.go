package transport

import (
	"errors"
	"fmt"
)

// TransportFailure is a network or decoding error talking to the remote API.
// It is never retried automatically.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("transport failure: %s: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// ApplicationFailure is a well-formed envelope with a non-200 code.
type ApplicationFailure struct {
	Code    int
	Message string
}

func (e *ApplicationFailure) Error() string {
	return fmt.Sprintf("application failure %d: %s", e.Code, e.Message)
}

// IsTransportFailure reports whether err is a *TransportFailure.
func IsTransportFailure(err error) bool {
	var tf *TransportFailure
	return errors.As(err, &tf)
}

// AsApplicationFailure extracts an *ApplicationFailure from err.
func AsApplicationFailure(err error) (*ApplicationFailure, bool) {
	var af *ApplicationFailure
	if errors.As(err, &af) {
		return af, true
	}
	return nil, false
}
