package request

import (
	"fmt"
)

// TransportError is returned when no HTTP response could be obtained for a
// request, or its body could not be read
type TransportError struct {
	Err      error
	Attempts int
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error after %d attempt(s): %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}
