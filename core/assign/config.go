package assign

import (
	"fmt"
	"time"

	"github.com/kilianp07/carpool/core/factory"
	"github.com/kilianp07/carpool/core/model"
)

const defaultWorkers = 4

// Config defines solver settings.
type Config struct {
	// Engine selects the search engine ("bnb" or "sat") and its options.
	Engine factory.ModuleConfig `json:"engine"`
	// Objective is "none", "balance" or "max_load".
	Objective string `json:"objective"`
	// TimeLimitMS bounds each solve. Zero means no limit.
	TimeLimitMS int `json:"time_limit_ms"`
	// Disable lists constraint families left out of the model.
	Disable []string `json:"disable"`
	// Grades overrides the grades each vehicle must cover.
	Grades []int `json:"grades"`
	// Workers bounds the number of concurrent solves in a batch.
	Workers int `json:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Engine.Type == "" {
		c.Engine.Type = DefaultEngine
	}
	if c.Objective == "" {
		c.Objective = "none"
	}
	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Engine.Type != "" && !engineRegistry.Has(c.Engine.Type) {
		return fmt.Errorf("%w %q", factory.ErrUnknownType, c.Engine.Type)
	}
	if _, err := NewObjective(c.Objective); err != nil {
		return err
	}
	if c.TimeLimitMS < 0 {
		return fmt.Errorf("time_limit_ms must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if _, err := c.families(); err != nil {
		return err
	}
	for _, g := range c.Grades {
		if !model.Grade(g).Valid() {
			return fmt.Errorf("grade %d outside [%d,%d]", g, model.MinGrade, model.MaxGrade)
		}
	}
	return nil
}

// TimeLimit returns the per-solve time limit.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMS) * time.Millisecond
}

func (c Config) families() ([]Family, error) {
	fs := make([]Family, 0, len(c.Disable))
	for _, name := range c.Disable {
		f, err := ParseFamily(name)
		if err != nil {
			return nil, err
		}
		if f == FamilyAssignment || f == FamilyCapacity {
			return nil, fmt.Errorf("constraint family %s cannot be disabled", f)
		}
		fs = append(fs, f)
	}
	return fs, nil
}

// BuildOptions converts the model settings into Build options.
func (c Config) BuildOptions() ([]BuildOption, error) {
	fs, err := c.families()
	if err != nil {
		return nil, err
	}
	var opts []BuildOption
	if len(fs) > 0 {
		opts = append(opts, WithoutFamilies(fs...))
	}
	if len(c.Grades) > 0 {
		gs := make([]model.Grade, len(c.Grades))
		for i, g := range c.Grades {
			gs[i] = model.Grade(g)
		}
		opts = append(opts, WithGrades(gs...))
	}
	return opts, nil
}
