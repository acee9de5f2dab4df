package api

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the client error taxonomy. Callers classify failures
// with errors.Is/errors.As and decide how to degrade: a network failure is a
// transient toast, 401 clears the identity and routes to login, a validation
// failure is shown verbatim.
var (
	// ErrUnauthenticated is returned for any 401 response. The session store
	// must be cleared by the caller before redirecting to login.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInsufficientStock marks the server's stock-limit rejection of a cart
	// mutation. Matched through ValidationError.Is so both errors.Is checks
	// and verbatim message display work.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// NetworkError wraps a transport-level failure (connection refused, timeout,
// DNS). Always treated as non-fatal.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a 4xx rejection carrying the server's structured message,
// which is shown to the user verbatim.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports ErrInsufficientStock for stock-limit rejections so callers can
// branch on errors.Is(err, ErrInsufficientStock) without string matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInsufficientStock &&
		strings.Contains(strings.ToLower(e.Message), "insufficient stock")
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
