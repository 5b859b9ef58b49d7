package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain matches any *DomainError via errors.Is.
	ErrDomain = errors.New("capacity model undefined")

	// ErrParameter matches any *ParameterError via errors.Is.
	ErrParameter = errors.New("parameter outside its valid range")
)

// DomainError reports an input for which the capacity formula has no value:
// an empty speed catalogue or a degenerate weighted inter-arrival time.
// It is never converted to a zero capacity.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDomain, e.Reason)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// ParameterError reports a field that violates its declared invariant.
type ParameterError struct {
	Field      string
	Value      float64
	Constraint string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s must be %s, got %v", e.Field, e.Constraint, e.Value)
}

func (e *ParameterError) Is(target error) bool {
	return target == ErrParameter
}
