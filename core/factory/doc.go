// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation. Solver engines and metrics sinks are both built
// through a Registry.
//
// Example usage:
//
//	reg := factory.NewRegistry[assign.Engine]("bnb")
//	reg.Register("bnb", func(conf map[string]any) (assign.Engine, error) {
//	    var c struct{ Depth int `json:"relaxation_depth"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newEngine(c.Depth), nil
//	})
//	e, err := reg.Create(factory.ModuleConfig{Type: "bnb", Conf: map[string]any{"relaxation_depth": 2}})
package factory
