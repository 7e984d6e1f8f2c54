package filtering

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a filter requires a caller identity
	// but the request is anonymous.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidParameter is returned when a filter value is malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrServerNotFound is returned when the by-id filter narrows the working
	// set to nothing.
	ErrServerNotFound = errors.New("server not found")
)

// NotFoundError reports that the requested server id matched nothing in the
// working set. Its message is part of the HTTP contract.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Server with id %d not found", e.ID)
}

// Is makes NotFoundError match ErrServerNotFound in errors.Is checks.
func (*NotFoundError) Is(target error) bool {
	return target == ErrServerNotFound
}

// ParameterError reports a malformed filter value. The parameter name and raw
// value are kept for logging; the message itself is part of the HTTP contract.
type ParameterError struct {
	Param string
	Value string
}

func (*ParameterError) Error() string {
	return "Server value error"
}

// Is makes ParameterError match ErrInvalidParameter in errors.Is checks.
func (*ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}
