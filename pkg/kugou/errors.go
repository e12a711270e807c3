package kugou

import (
	"errors"
	"fmt"
	"net/url"
)

// StatusError represents a non-2xx response from the gateway.
type StatusError struct {
	Code   int    // HTTP status code
	Status string // HTTP status line
	Path   string // Request path
}

// Error returns the error message.
func (e *StatusError) Error() string {
	return fmt.Sprintf("kugou: %s returned %s", e.Path, e.Status)
}

// Is allows errors.Is comparisons between StatusErrors by code.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsTransportError reports whether err came from the network or from a
// non-2xx gateway response, as opposed to a parse or caller error.
func IsTransportError(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
