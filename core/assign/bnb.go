package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/carpool/core/factory"
	"github.com/kilianp07/carpool/core/logger"
)

const (
	defaultRelaxationDepth = 3
	defaultMaxRelaxVars    = 120
)

// BranchAndBound is a depth-first 0-1 search with exact cardinality
// propagation and LP relaxation bounding near the root.
type BranchAndBound struct {
	// RelaxationDepth is the deepest node at which the LP relaxation is
	// solved. Negative disables relaxation.
	RelaxationDepth int
	// MaxRelaxVars skips the relaxation at nodes with more free variables.
	MaxRelaxVars int
}

// NewBranchAndBound returns the engine with default settings.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{RelaxationDepth: defaultRelaxationDepth, MaxRelaxVars: defaultMaxRelaxVars}
}

type bnbConf struct {
	RelaxationDepth int `json:"relaxation_depth"`
	MaxRelaxVars    int `json:"max_relax_vars"`
}

func newBranchAndBoundFromConf(conf map[string]any) (Engine, error) {
	c := bnbConf{RelaxationDepth: defaultRelaxationDepth, MaxRelaxVars: defaultMaxRelaxVars}
	if err := factory.Decode(conf, &c); err != nil {
		return nil, fmt.Errorf("bnb engine config: %w", err)
	}
	if c.MaxRelaxVars < 0 {
		return nil, fmt.Errorf("bnb engine config: max_relax_vars must not be negative")
	}
	return &BranchAndBound{RelaxationDepth: c.RelaxationDepth, MaxRelaxVars: c.MaxRelaxVars}, nil
}

func (e *BranchAndBound) Name() string { return "bnb" }

// Solve explores the model. Without an objective the first leaf is returned
// as Optimal. Branching picks the unsatisfied ">=" or "==" constraint with the
// least slack (lowest index on ties) and tries its lowest free variable at 1
// then 0, so identical models always produce identical outcomes.
func (e *BranchAndBound) Solve(ctx context.Context, m *Model, opts SolveOptions) Outcome {
	start := time.Now()
	ctx, cancel := withLimit(ctx, opts.TimeLimit)
	defer cancel()

	s := newSearch(ctx, m, opts)
	s.relaxDepth = e.RelaxationDepth
	s.maxRelaxVars = e.MaxRelaxVars
	out := s.run()
	out.Elapsed = time.Since(start)
	out.Engine = e.Name()
	out.model = m
	s.log.Debugw("branch and bound finished", map[string]any{
		"status":           out.Status.String(),
		"nodes":            out.Nodes,
		"relaxations":      s.relaxations,
		"relaxation_prune": s.relaxPruned,
		"elapsed_ms":       out.Elapsed.Milliseconds(),
	})
	return out
}

type search struct {
	ctx  context.Context
	m    *Model
	cons []Constraint
	obj  Objective
	log  logger.Logger

	occurs [][]int // constraints of each variable
	val    []int8  // -1 free, 0 or 1
	ones   []int   // per constraint: variables fixed to 1
	free   []int   // per constraint: free variables
	trail  []Var
	queue  []int
	queued []bool

	relaxDepth   int
	maxRelaxVars int

	nodes       int64
	relaxations int64
	relaxPruned int64

	best     []bool
	bestCost int
	found    bool
	stopErr  error
}

func newSearch(ctx context.Context, m *Model, opts SolveOptions) *search {
	n := m.NumVars()
	s := &search{
		ctx:    ctx,
		m:      m,
		cons:   m.constraints,
		obj:    opts.Objective,
		log:    logger.OrNop(opts.Logger),
		occurs: make([][]int, n),
		val:    make([]int8, n),
		ones:   make([]int, len(m.constraints)),
		free:   make([]int, len(m.constraints)),
		queued: make([]bool, len(m.constraints)),
		trail:  make([]Var, 0, n),
	}
	for i := range s.val {
		s.val[i] = -1
	}
	for ci, c := range s.cons {
		s.free[ci] = len(c.Vars)
		for _, x := range c.Vars {
			s.occurs[x] = append(s.occurs[x], ci)
		}
	}
	return s
}

func (s *search) run() Outcome {
	for ci := range s.cons {
		s.enqueue(ci)
	}
	if !s.propagate() {
		return Outcome{Status: Infeasible, Nodes: 1}
	}
	s.dfs(0)

	out := Outcome{Nodes: s.nodes}
	switch {
	case s.found:
		out.Status = Optimal
		if s.stopErr != nil {
			out.Status = Feasible
		}
		out.Values = s.best
		if s.obj != nil {
			out.Cost, out.HasCost = s.bestCost, true
		}
	case s.stopErr != nil:
		out.Status = interrupted(s.stopErr)
	default:
		out.Status = Infeasible
	}
	return out
}

// dfs returns true when the search must stop: a feasible leaf without
// objective, or an interrupted context.
func (s *search) dfs(depth int) bool {
	s.nodes++
	if err := s.ctx.Err(); err != nil {
		s.stopErr = err
		return true
	}
	if s.obj != nil && s.found && s.obj.LowerBound(s.m, s.val) >= s.bestCost {
		return false
	}
	if s.shouldRelax(depth) && !s.relax() {
		return false
	}
	ci := s.pickConstraint()
	if ci < 0 {
		return s.leaf()
	}
	x := s.firstFree(ci)
	for _, value := range [...]int8{1, 0} {
		mark := len(s.trail)
		s.fix(x, value)
		if s.propagate() && s.dfs(depth+1) {
			return true
		}
		s.undo(mark)
	}
	return false
}

// leaf records the current node. Every ">=" and "==" constraint holds and
// propagation keeps "<=" within bounds, so free variables are set to zero.
func (s *search) leaf() bool {
	values := make([]bool, len(s.val))
	for i, v := range s.val {
		values[i] = v == 1
	}
	if s.obj == nil {
		s.best, s.found = values, true
		return true
	}
	cost := s.obj.Cost(s.m, values)
	if !s.found || cost < s.bestCost {
		s.best, s.bestCost, s.found = values, cost, true
		s.log.Debugf("incumbent %s=%d after %d nodes", s.obj.Name(), cost, s.nodes)
	}
	return false
}

func (s *search) pickConstraint() int {
	best, bestSlack := -1, 0
	for ci, c := range s.cons {
		if c.Sense == AtMost {
			continue
		}
		need := c.RHS - s.ones[ci]
		if need <= 0 {
			continue
		}
		slack := s.free[ci] - need
		if best < 0 || slack < bestSlack {
			best, bestSlack = ci, slack
		}
	}
	return best
}

func (s *search) firstFree(ci int) Var {
	for _, x := range s.cons[ci].Vars {
		if s.val[x] < 0 {
			return x
		}
	}
	panic(fmt.Sprintf("constraint %d has no free variable", ci))
}

func (s *search) fix(x Var, value int8) {
	s.val[x] = value
	s.trail = append(s.trail, x)
	for _, ci := range s.occurs[x] {
		s.free[ci]--
		if value == 1 {
			s.ones[ci]++
		}
		s.enqueue(ci)
	}
}

func (s *search) undo(mark int) {
	for len(s.trail) > mark {
		x := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		for _, ci := range s.occurs[x] {
			s.free[ci]++
			if s.val[x] == 1 {
				s.ones[ci]--
			}
		}
		s.val[x] = -1
	}
}

func (s *search) enqueue(ci int) {
	if !s.queued[ci] {
		s.queued[ci] = true
		s.queue = append(s.queue, ci)
	}
}

func (s *search) clearQueue() {
	for _, ci := range s.queue {
		s.queued[ci] = false
	}
	s.queue = s.queue[:0]
}

// propagate runs the constraints in the queue to a fixpoint. It returns false
// on a conflict.
func (s *search) propagate() bool {
	for len(s.queue) > 0 {
		ci := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]
		s.queued[ci] = false

		c := &s.cons[ci]
		low, high := s.ones[ci], s.ones[ci]+s.free[ci]
		switch c.Sense {
		case AtMost:
			if low > c.RHS {
				s.clearQueue()
				return false
			}
			if low == c.RHS {
				s.force(ci, 0)
			}
		case AtLeast:
			if high < c.RHS {
				s.clearQueue()
				return false
			}
			if high == c.RHS {
				s.force(ci, 1)
			}
		case Equal:
			if low > c.RHS || high < c.RHS {
				s.clearQueue()
				return false
			}
			if low == c.RHS {
				s.force(ci, 0)
			} else if high == c.RHS {
				s.force(ci, 1)
			}
		}
	}
	return true
}

func (s *search) force(ci int, value int8) {
	if s.free[ci] == 0 {
		return
	}
	for _, x := range s.cons[ci].Vars {
		if s.val[x] < 0 {
			s.fix(x, value)
		}
	}
}
