package config

import "github.com/kilianp07/solarcar/core/solver"

// SolverConfig selects how the required speed is searched.
type SolverConfig struct {
	// Strategy is "scan" (first integer speed within tolerance) or "bisect"
	// (refines the first hit to a fractional speed).
	Strategy string `json:"strategy"`
}

// Validate checks the strategy name.
func (c SolverConfig) Validate() error {
	_, err := solver.ParseStrategy(c.Strategy)
	return err
}

// Options returns the solver options for this configuration.
func (c SolverConfig) Options() []solver.Option {
	st, err := solver.ParseStrategy(c.Strategy)
	if err != nil {
		return nil
	}
	return []solver.Option{solver.WithStrategy(st)}
}
