package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/carpool/core/metrics"
)

// PromConfig tunes the Prometheus sink.
type PromConfig struct {
	// Namespace prefixes every metric name. Defaults to "carpool".
	Namespace string `json:"namespace"`
}

// PromSink records solver events in Prometheus metrics.
type PromSink struct {
	solves        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	nodes         *prometheus.CounterVec
	variables     prometheus.Histogram
	cost          *prometheus.GaugeVec
	rejected      prometheus.Counter
	batchRequests *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

// NewPromSink registers solver metrics on the default Prometheus registerer.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "carpool"
	}

	s := &PromSink{}
	var err error
	if s.solves, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "solves_total",
		Help:      "Total number of solved requests by engine and outcome status",
	}, []string{"engine", "status"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "solve_duration_seconds",
		Help:      "Time spent building, solving and extracting a request",
		Buckets:   prometheus.DefBuckets,
	}, []string{"engine"})); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "search_nodes_total",
		Help:      "Search nodes expanded by the engines",
	}, []string{"engine"})); err != nil {
		return nil, err
	}
	if s.variables, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "model_variables",
		Help:      "Number of decision variables per model",
		Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
	})); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "objective_cost",
		Help:      "Objective value of the last solved request",
	}, []string{"objective"})); err != nil {
		return nil, err
	}
	if s.rejected, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "rejected_total",
		Help:      "Requests rejected before search because of invalid input",
	})); err != nil {
		return nil, err
	}
	if s.batchRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "batch_requests_total",
		Help:      "Batch requests by result",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if s.batchDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "batch_duration_seconds",
		Help:      "Wall time of a batch",
		Buckets:   prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve updates the solve counters and histograms.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Engine, ev.Status).Inc()
	s.duration.WithLabelValues(ev.Engine).Observe(ev.Duration.Seconds())
	s.nodes.WithLabelValues(ev.Engine).Add(float64(ev.Nodes))
	s.variables.Observe(float64(ev.Variables))
	if ev.HasCost {
		s.cost.WithLabelValues(ev.Objective).Set(float64(ev.Cost))
	}
	return nil
}

// RecordRejected counts a request refused before search.
func (s *PromSink) RecordRejected(coremetrics.RejectedEvent) error {
	s.rejected.Inc()
	return nil
}

// RecordBatch records the outcome split and duration of a batch.
func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	s.batchRequests.WithLabelValues("solved").Add(float64(ev.Solved))
	s.batchRequests.WithLabelValues("failed").Add(float64(ev.Failed))
	s.batchRequests.WithLabelValues("unsolved").Add(float64(ev.Requests - ev.Solved - ev.Failed))
	s.batchDuration.Observe(ev.Duration.Seconds())
	return nil
}
