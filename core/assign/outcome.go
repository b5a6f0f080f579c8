package assign

import "time"

// Status is the terminal state reported by an engine.
type Status int

const (
	// Optimal: the values are feasible and no better objective value exists.
	// Without an objective every feasible assignment is optimal.
	Optimal Status = iota
	// Feasible: the values are feasible; the search stopped before proving
	// optimality.
	Feasible
	// Infeasible: no assignment satisfies every constraint.
	Infeasible
	// Unbounded: the objective has no lower bound. Binary models never
	// produce it; it is part of the engine contract.
	Unbounded
	// TimedOut: the time limit expired before any feasible assignment was found.
	TimedOut
	// Cancelled: the caller cancelled the search before any feasible
	// assignment was found.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case TimedOut:
		return "timed_out"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// HasSolution reports whether the status carries variable values.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Outcome is the value returned by an engine.
type Outcome struct {
	Status Status
	// Values holds one entry per model variable when Status.HasSolution().
	Values []bool
	// Cost is the objective value of Values when an objective was configured.
	Cost    int
	HasCost bool
	Nodes   int64
	Elapsed time.Duration
	Engine  string

	model *Model
}

// Model returns the model the outcome was computed for.
func (o Outcome) Model() *Model {
	return o.model
}
