// Package metrics defines the events emitted by the assignment planner and the
// sink interfaces that record them. Sinks are created from configuration
// through a factory registry; the Prometheus implementation lives in
// infra/metrics and registers itself on import. NewMetricsSink returns a
// MultiSink automatically when several sinks are configured.
package metrics
