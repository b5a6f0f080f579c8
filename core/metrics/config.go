package metrics

import "github.com/kilianp07/carpool/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Listen is the address of the optional /metrics HTTP endpoint.
	Listen string `json:"listen"`
}
