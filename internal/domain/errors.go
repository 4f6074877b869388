package domain

import "errors"

var (
	// ErrNotFound marks an unknown route, truck, facility or employee id.
	ErrNotFound = errors.New("not found")
	// ErrInfeasible marks a request that no resource pool can satisfy.
	ErrInfeasible = errors.New("infeasible")
	// ErrConflict marks a request that collides with an existing assignment.
	ErrConflict = errors.New("conflict")
)

// FailureKind classifies why a scheduling operation returned its neutral value.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureInvalidInput
	FailureInfeasible
	FailureConflict
	FailureStore
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "ok"
	case FailureInvalidInput:
		return "invalid_input"
	case FailureInfeasible:
		return "infeasible"
	case FailureConflict:
		return "conflict"
	default:
		return "store_error"
	}
}

// Classify maps an error returned from a scheduling operation to its kind.
// Any error outside the business taxonomy is a store failure.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotFound):
		return FailureInvalidInput
	case errors.Is(err, ErrInfeasible):
		return FailureInfeasible
	case errors.Is(err, ErrConflict):
		return FailureConflict
	default:
		return FailureStore
	}
}
