// Package app wires grids, generators, analyzers, and reductions into
// complete simulation runs.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gomonte/domain/grid"
	"gomonte/domain/result"
	"gomonte/internal"
	"gomonte/internal/errors"
	"gomonte/internal/rng"
	"gomonte/ports"
)

// RowResult pairs a condition row with the record its analyzer produced.
type RowResult struct {
	Row    grid.ConditionRow
	Record result.Record
}

// RowFailure records a row that failed in best-effort mode.
type RowFailure struct {
	Index int
	Err   error
}

// RunResult is the complete output of one simulation run, in grid order.
type RunResult struct {
	ID       string
	Config   grid.Config
	Results  []RowResult
	Failures []RowFailure
	Runtime  time.Duration
}

// Runner executes an experiment grid row by row. Each row draws from its
// own seed-derived random sub-stream, so sequential and parallel
// execution produce bit-identical results.
type Runner struct {
	log        *internal.Logger
	workers    int
	bestEffort bool
	rowTimeout time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers enables concurrent row execution with up to n workers.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithBestEffort switches from abort-on-first-error to the diagnostic
// mode that records failing rows and keeps going.
func WithBestEffort() RunnerOption {
	return func(r *Runner) { r.bestEffort = true }
}

// WithRowTimeout guards each analyzer call with a deadline so a test
// that hangs on degenerate input fails the row instead of the process.
func WithRowTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.rowTimeout = d }
}

// WithLogger replaces the default logger.
func WithLogger(log *internal.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a sequential, abort-on-first-error runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{log: internal.DefaultLogger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run expands the grid and evaluates every row with the generator and
// analyzer. The default policy is the notebook policy: any row failure
// aborts the whole run with the originating error.
func (r *Runner) Run(ctx context.Context, cfg grid.Config, gen ports.Generator, an ports.Analyzer) (*RunResult, error) {
	start := time.Now()

	rows, err := grid.Expand(cfg)
	if err != nil {
		return nil, err
	}
	var streams ports.RNG = rng.NewFactory(cfg.Seed)

	r.log.Info("run %s: %d rows (%d conditions x %d iterations), generator=%s analyzer=%s seed=%d",
		cfg.Name, len(rows), grid.Conditions(cfg), cfg.Iterations, gen.Name(), an.Name(), cfg.Seed)

	run := &RunResult{
		ID:     uuid.NewString(),
		Config: cfg,
	}

	records := make([]result.Record, len(rows))
	failures := make([]error, len(rows))

	evalRow := func(row grid.ConditionRow) error {
		rec, err := r.evalOne(ctx, row, streams, gen, an)
		if err != nil {
			if r.bestEffort {
				failures[row.Index] = err
				return nil
			}
			return errors.Wrapf(err, "row %d (iteration %d)", row.Index, row.Iteration)
		}
		records[row.Index] = rec
		return nil
	}

	if r.workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for _, row := range rows {
			row := row
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return evalRow(row)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := evalRow(row); err != nil {
				return nil, err
			}
		}
	}

	run.Results = make([]RowResult, 0, len(rows))
	for i, row := range rows {
		if failures[i] != nil {
			run.Failures = append(run.Failures, RowFailure{Index: i, Err: failures[i]})
			continue
		}
		run.Results = append(run.Results, RowResult{Row: row, Record: records[i]})
	}

	run.Runtime = time.Since(start)
	if len(run.Failures) > 0 {
		r.log.Warn("run %s: %d of %d rows failed (best-effort mode)", cfg.Name, len(run.Failures), len(rows))
	}
	r.log.Info("run %s: finished in %s", cfg.Name, run.Runtime)
	return run, nil
}

func (r *Runner) evalOne(ctx context.Context, row grid.ConditionRow, streams ports.RNG, gen ports.Generator, an ports.Analyzer) (result.Record, error) {
	rnd := streams.Row(row.Index)

	ds, err := gen.Generate(ctx, row, rnd)
	if err != nil {
		return result.Record{}, errors.Wrapf(err, "generator %s", gen.Name())
	}

	if r.rowTimeout <= 0 {
		rec, err := an.Analyze(ctx, ds)
		if err != nil {
			return result.Record{}, errors.Wrapf(err, "analyzer %s", an.Name())
		}
		return rec, nil
	}

	cctx, cancel := context.WithTimeout(ctx, r.rowTimeout)
	defer cancel()

	type outcome struct {
		rec result.Record
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		rec, err := an.Analyze(cctx, ds)
		ch <- outcome{rec, err}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			return result.Record{}, errors.Wrapf(o.err, "analyzer %s", an.Name())
		}
		return o.rec, nil
	case <-cctx.Done():
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "analyzer %s exceeded %v row timeout", an.Name(), r.rowTimeout)
	}
}
