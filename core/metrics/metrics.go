package metrics

import "time"

// SolveEvent describes one model build and solve carried out by the planner.
type SolveEvent struct {
	RequestID   string
	Engine      string
	Objective   string
	Status      string
	Students    int
	Vehicles    int
	Variables   int
	Constraints int
	Nodes       int64
	Cost        int
	HasCost     bool
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records solve events for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// RejectedEvent records a request refused before any search started.
type RejectedEvent struct {
	RequestID string
	Reason    string
	Time      time.Time
}

// RejectionRecorder is implemented by sinks able to count rejected requests.
type RejectionRecorder interface {
	RecordRejected(ev RejectedEvent) error
}

// BatchEvent summarises a PlanBatch call.
type BatchEvent struct {
	Requests int
	Solved   int
	Failed   int
	Duration time.Duration
	Time     time.Time
}

// BatchRecorder is implemented by sinks able to record batch summaries.
type BatchRecorder interface {
	RecordBatch(ev BatchEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error       { return nil }
func (NopSink) RecordRejected(RejectedEvent) error { return nil }
func (NopSink) RecordBatch(BatchEvent) error       { return nil }
