// Package experiments holds the classroom catalog: ready-to-run
// Monte-Carlo demonstrations wiring a grid, a generator, an analyzer,
// and reductions together, plus a YAML loader for ad-hoc experiments.
package experiments

import (
	"context"

	"gomonte/adapters/plot"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/summary"
	"gomonte/ports"
)

// Experiment is one complete simulation: everything the runner and the
// aggregator need, plus optional presentation hints.
type Experiment struct {
	Description string
	Config      grid.Config
	Generator   ports.Generator
	Analyzer    ports.Analyzer
	Reductions  []app.Reduction
	Multiverse  *plot.MultiverseSpec
}

// Run executes the experiment and aggregates the summary table.
func (e *Experiment) Run(ctx context.Context, runner *app.Runner) (*app.RunResult, summary.Table, error) {
	run, err := runner.Run(ctx, e.Config, e.Generator, e.Analyzer)
	if err != nil {
		return nil, summary.Table{}, err
	}
	table, err := app.Aggregate(run, e.Reductions)
	if err != nil {
		return nil, summary.Table{}, err
	}
	return run, table, nil
}
