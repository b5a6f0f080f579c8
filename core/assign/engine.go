package assign

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/carpool/core/factory"
	"github.com/kilianp07/carpool/core/logger"
)

// SolveOptions tunes a single Solve call.
type SolveOptions struct {
	// TimeLimit bounds the search. Zero means no limit.
	TimeLimit time.Duration
	// Objective is minimised when set. Nil asks for any feasible assignment.
	Objective Objective
	Logger    logger.Logger
}

// Engine searches a model for an assignment. Implementations return solver
// outcomes as values; they never fail for infeasible or interrupted searches.
type Engine interface {
	Name() string
	Solve(ctx context.Context, m *Model, opts SolveOptions) Outcome
}

var engineRegistry = factory.NewRegistry[Engine](DefaultEngine)

// DefaultEngine is used when the configuration leaves the engine type empty.
const DefaultEngine = "bnb"

// RegisterEngine adds an engine factory identified by name.
func RegisterEngine(name string, f factory.Factory[Engine]) error {
	return engineRegistry.Register(name, f)
}

// NewEngine creates an engine from its configuration.
func NewEngine(cfg factory.ModuleConfig) (Engine, error) {
	return engineRegistry.Create(cfg)
}

// EngineNames lists the registered engines.
func EngineNames() []string {
	return engineRegistry.Names()
}

func init() {
	_ = RegisterEngine("bnb", newBranchAndBoundFromConf)
	_ = RegisterEngine("sat", newSATFromConf)
}

// withLimit applies the time limit as a context deadline.
func withLimit(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	if limit > 0 {
		return context.WithTimeout(ctx, limit)
	}
	return context.WithCancel(ctx)
}

// interrupted maps a context error to the status reported when no solution
// was found.
func interrupted(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimedOut
	}
	return Cancelled
}
