package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/carpool/core/factory"
	coremetrics "github.com/kilianp07/carpool/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c PromConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSinkWithRegistry(c, prometheus.DefaultRegisterer)
	})
}
