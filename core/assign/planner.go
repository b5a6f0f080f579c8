package assign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/carpool/core/logger"
	"github.com/kilianp07/carpool/core/metrics"
	"github.com/kilianp07/carpool/core/model"
)

// Planner runs build, solve and extract for each request and reports what
// happened through its logger and metrics sink.
type Planner struct {
	engine    Engine
	objective Objective
	objName   string
	timeLimit time.Duration
	buildOpts []BuildOption
	workers   int
	logger    logger.Logger
	metrics   metrics.MetricsSink
}

// PlannerOption customises a Planner.
type PlannerOption func(*Planner)

func WithLogger(l logger.Logger) PlannerOption {
	return func(p *Planner) { p.logger = logger.OrNop(l) }
}

func WithMetrics(s metrics.MetricsSink) PlannerOption {
	return func(p *Planner) {
		if s != nil {
			p.metrics = s
		}
	}
}

// WithEngine replaces the engine selected by the configuration.
func WithEngine(e Engine) PlannerOption {
	return func(p *Planner) {
		if e != nil {
			p.engine = e
		}
	}
}

// NewPlanner validates cfg and creates the configured engine.
func NewPlanner(cfg Config, opts ...PlannerOption) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solver config: %w", err)
	}
	engine, err := NewEngine(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("solver engine: %w", err)
	}
	obj, err := NewObjective(cfg.Objective)
	if err != nil {
		return nil, err
	}
	buildOpts, err := cfg.BuildOptions()
	if err != nil {
		return nil, err
	}
	p := &Planner{
		engine:    engine,
		objective: obj,
		objName:   cfg.Objective,
		timeLimit: cfg.TimeLimit(),
		buildOpts: buildOpts,
		workers:   cfg.Workers,
		logger:    logger.NopLogger{},
		metrics:   metrics.NopSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Engine returns the engine used by the planner.
func (p *Planner) Engine() Engine {
	return p.engine
}

// Plan is the result of one request.
type Plan struct {
	ID      string
	Outcome Outcome
	// Table is nil when the outcome carries no solution.
	Table *Table
}

// Solved reports whether an assignment was found.
func (p *Plan) Solved() bool {
	return p.Table != nil
}

// Plan builds the model, solves it and extracts the table. Infeasible or
// interrupted searches are not errors: the returned plan has a nil Table and
// the outcome status tells why. Invalid records return *InvalidInputError and
// engine bugs *InternalInvariantError.
func (p *Planner) Plan(ctx context.Context, students []model.Student, vehicles []model.Vehicle) (*Plan, error) {
	id := uuid.NewString()
	start := time.Now()

	m, err := Build(students, vehicles, p.buildOpts...)
	if err != nil {
		p.logger.Warnf("request %s rejected: %v", id, err)
		p.reject(id, err)
		return nil, err
	}
	p.logger.Debugw("model built", map[string]any{
		"request_id":  id,
		"students":    len(students),
		"vehicles":    len(vehicles),
		"variables":   m.NumVars(),
		"constraints": m.NumConstraints(),
		"engine":      p.engine.Name(),
	})
	if seats := model.TotalCapacity(vehicles); seats < len(students) {
		p.logger.Warnf("request %s: %d students for %d seats, no assignment can exist", id, len(students), seats)
	}

	out := p.engine.Solve(ctx, m, SolveOptions{
		TimeLimit: p.timeLimit,
		Objective: p.objective,
		Logger:    p.logger,
	})
	plan := &Plan{ID: id, Outcome: out}

	table, err := Extract(out)
	var noSolution *NoSolutionError
	switch {
	case err == nil:
		plan.Table = table
	case errors.As(err, &noSolution):
	default:
		p.logger.Errorf("request %s: %v", id, err)
		p.record(id, m, out, time.Since(start))
		return nil, err
	}
	p.record(id, m, out, time.Since(start))
	p.logger.Infof("request %s: %s by %s after %d nodes in %s", id, out.Status, out.Engine, out.Nodes, out.Elapsed)
	return plan, nil
}

// Request is one dataset of a batch.
type Request struct {
	Name     string
	Students []model.Student
	Vehicles []model.Vehicle
}

// BatchResult pairs a request name with its plan or error.
type BatchResult struct {
	Name string
	Plan *Plan
	Err  error
}

// PlanBatch solves independent requests concurrently, at most workers at a
// time. Results keep the order of reqs.
func (p *Planner) PlanBatch(ctx context.Context, reqs []Request) []BatchResult {
	start := time.Now()
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}
	for i, r := range reqs {
		g.Go(func() error {
			plan, err := p.Plan(ctx, r.Students, r.Vehicles)
			results[i] = BatchResult{Name: r.Name, Plan: plan, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	ev := metrics.BatchEvent{Requests: len(reqs), Duration: time.Since(start), Time: time.Now()}
	for _, r := range results {
		switch {
		case r.Err != nil:
			ev.Failed++
		case r.Plan.Solved():
			ev.Solved++
		}
	}
	if rec, ok := p.metrics.(metrics.BatchRecorder); ok {
		if err := rec.RecordBatch(ev); err != nil {
			p.logger.Warnf("record batch: %v", err)
		}
	}
	p.logger.Infof("batch of %d: %d solved, %d failed in %s", ev.Requests, ev.Solved, ev.Failed, ev.Duration)
	return results
}

func (p *Planner) record(id string, m *Model, out Outcome, d time.Duration) {
	ev := metrics.SolveEvent{
		RequestID:   id,
		Engine:      out.Engine,
		Objective:   p.objName,
		Status:      out.Status.String(),
		Students:    len(m.students),
		Vehicles:    len(m.vehicles),
		Variables:   m.NumVars(),
		Constraints: m.NumConstraints(),
		Nodes:       out.Nodes,
		Cost:        out.Cost,
		HasCost:     out.HasCost,
		Duration:    d,
		Time:        time.Now(),
	}
	if err := p.metrics.RecordSolve(ev); err != nil {
		p.logger.Warnf("record solve %s: %v", id, err)
	}
}

func (p *Planner) reject(id string, err error) {
	rec, ok := p.metrics.(metrics.RejectionRecorder)
	if !ok {
		return
	}
	if rerr := rec.RecordRejected(metrics.RejectedEvent{RequestID: id, Reason: err.Error(), Time: time.Now()}); rerr != nil {
		p.logger.Warnf("record rejection %s: %v", id, rerr)
	}
}
