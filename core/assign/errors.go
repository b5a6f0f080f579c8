package assign

import (
	"fmt"
	"strings"
)

// InvalidInputError reports records rejected before any model is built. The
// caller must fix the input; retrying cannot succeed.
type InvalidInputError struct {
	Problems []string
}

func (e *InvalidInputError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid input: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid input (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// NoSolutionError is returned by Extract when the outcome carries no
// assignment.
type NoSolutionError struct {
	Status Status
}

func (e *NoSolutionError) Error() string {
	return "no solution: " + e.Status.String()
}

// InternalInvariantError signals that an engine returned values violating the
// model. It indicates a bug and must not be recovered from.
type InternalInvariantError struct {
	Engine string
	Detail string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated by engine %q: %s", e.Engine, e.Detail)
}
