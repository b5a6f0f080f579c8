package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/kilianp07/carpool/core/factory"
	"github.com/kilianp07/carpool/core/logger"
)

const defaultPollInterval = 5 * time.Millisecond

// SAT encodes the model as a boolean circuit with sorting-network cardinality
// constraints and hands it to gini. It only searches for feasibility: with an
// objective the found assignment is reported as Feasible with its cost.
type SAT struct {
	// PollInterval is how often the running solver is checked for a result
	// or an expired context.
	PollInterval time.Duration
}

// NewSAT returns the engine with default settings.
func NewSAT() *SAT {
	return &SAT{PollInterval: defaultPollInterval}
}

type satConf struct {
	PollIntervalMS int `json:"poll_interval_ms"`
}

func newSATFromConf(conf map[string]any) (Engine, error) {
	c := satConf{PollIntervalMS: int(defaultPollInterval / time.Millisecond)}
	if err := factory.Decode(conf, &c); err != nil {
		return nil, fmt.Errorf("sat engine config: %w", err)
	}
	if c.PollIntervalMS <= 0 {
		return nil, fmt.Errorf("sat engine config: poll_interval_ms must be positive")
	}
	return &SAT{PollInterval: time.Duration(c.PollIntervalMS) * time.Millisecond}, nil
}

func (e *SAT) Name() string { return "sat" }

func (e *SAT) Solve(ctx context.Context, m *Model, opts SolveOptions) Outcome {
	start := time.Now()
	ctx, cancel := withLimit(ctx, opts.TimeLimit)
	defer cancel()
	log := logger.OrNop(opts.Logger)

	out := e.solve(ctx, m, opts.Objective)
	out.Elapsed = time.Since(start)
	out.Engine = e.Name()
	out.model = m
	log.Debugw("sat search finished", map[string]any{
		"status":     out.Status.String(),
		"variables":  m.NumVars(),
		"elapsed_ms": out.Elapsed.Milliseconds(),
	})
	return out
}

func (e *SAT) solve(ctx context.Context, m *Model, obj Objective) Outcome {
	c := logic.NewCCap(m.NumVars() * 4)
	lits := make([]z.Lit, m.NumVars())
	for i := range lits {
		lits[i] = c.Lit()
	}

	roots := make([]z.Lit, 0, len(m.constraints))
	for _, con := range m.constraints {
		r := encodeCardinality(c, lits, con)
		if r == c.F {
			return Outcome{Status: Infeasible}
		}
		if r != c.T {
			roots = append(roots, r)
		}
	}

	g := gini.New()
	c.ToCnf(g)
	for _, r := range roots {
		g.Add(r)
		g.Add(z.LitNull)
	}

	res, err := e.wait(ctx, g)
	switch {
	case res == 1:
		values := make([]bool, len(lits))
		for i, l := range lits {
			values[i] = g.Value(l)
		}
		out := Outcome{Status: Optimal, Values: values}
		if obj != nil {
			out.Status = Feasible
			out.Cost, out.HasCost = obj.Cost(m, values), true
		}
		return out
	case res == -1:
		return Outcome{Status: Infeasible}
	case err != nil:
		return Outcome{Status: interrupted(err)}
	default:
		return Outcome{Status: Cancelled}
	}
}

// wait runs the solver in the background until it answers or ctx ends. The
// result follows gini: 1 satisfiable, -1 unsatisfiable, 0 unknown.
func (e *SAT) wait(ctx context.Context, g *gini.Gini) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	interval := e.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	s := g.GoSolve()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			res := s.Stop()
			if res != 0 {
				return res, nil
			}
			return 0, ctx.Err()
		case <-ticker.C:
			if res, done := s.Test(); done {
				return res, nil
			}
		}
	}
}

// encodeCardinality returns a literal true iff con holds. Bounds that every
// or no assignment meets reduce to c.T or c.F without building a network.
func encodeCardinality(c *logic.C, lits []z.Lit, con Constraint) z.Lit {
	ms := make([]z.Lit, len(con.Vars))
	for i, x := range con.Vars {
		ms[i] = lits[x]
	}
	n := len(ms)
	low, high := 0, n
	switch con.Sense {
	case AtMost:
		high = con.RHS
	case AtLeast:
		low = con.RHS
	case Equal:
		low, high = con.RHS, con.RHS
	}
	if low > n || high < 0 || low > high {
		return c.F
	}
	if low <= 0 && high >= n {
		return c.T
	}
	cs := c.CardSort(ms)
	res := c.T
	if low > 0 {
		res = c.And(res, cs.Geq(low))
	}
	if high < n {
		res = c.And(res, cs.Leq(high))
	}
	return res
}
