package app

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/domain/result"
	"gomonte/internal/errors"
)

// stubGenerator emits one observation per row: the first draw of the
// row's random stream, which makes determinism checks trivial.
type stubGenerator struct {
	failOn map[int]bool
}

func (stubGenerator) Name() string { return "stub" }

func (g stubGenerator) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	if g.failOn[row.Index] {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "poisoned row %d", row.Index)
	}
	return dataset.Dataset{Rows: []dataset.Observation{{
		Group:  dataset.GroupControl,
		Values: map[string]float64{dataset.FieldScore: rnd.Float64()},
	}}}, nil
}

// stubAnalyzer reports the first score as its estimate.
type stubAnalyzer struct {
	delay time.Duration
}

func (stubAnalyzer) Name() string { return "stub" }

func (a stubAnalyzer) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return result.Record{}, ctx.Err()
		}
	}
	return result.New().Set(result.MetricEstimate, ds.Rows[0].Values[dataset.FieldScore]), nil
}

func stubConfig(iterations int) grid.Config {
	return grid.Config{
		Name:       "stub",
		Iterations: iterations,
		Seed:       42,
		Params: []grid.Param{
			{Name: "n", Values: []any{10, 20}},
			{Name: "mean", Values: []any{0.0, 0.5}},
		},
	}
}

func estimates(run *RunResult) []float64 {
	out := make([]float64, 0, len(run.Results))
	for _, rr := range run.Results {
		v, _ := rr.Record.Get(result.MetricEstimate)
		out = append(out, v)
	}
	return out
}

func TestRunner_SequentialMatchesParallel(t *testing.T) {
	cfg := stubConfig(25)

	seq, err := NewRunner().Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{})
	require.NoError(t, err)
	par, err := NewRunner(WithWorkers(8)).Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{})
	require.NoError(t, err)

	require.Len(t, seq.Results, 100)
	assert.Equal(t, estimates(seq), estimates(par), "parallel run must be bit-identical to sequential")

	// Results stay in grid order regardless of completion order.
	for i, rr := range par.Results {
		assert.Equal(t, i, rr.Row.Index)
	}
}

func TestRunner_SeedChangesResults(t *testing.T) {
	cfg := stubConfig(5)
	a, err := NewRunner().Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{})
	require.NoError(t, err)

	cfg.Seed = 43
	b, err := NewRunner().Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{})
	require.NoError(t, err)

	assert.NotEqual(t, estimates(a), estimates(b))
}

func TestRunner_AbortsOnFirstFailure(t *testing.T) {
	gen := stubGenerator{failOn: map[int]bool{7: true}}
	_, err := NewRunner().Run(context.Background(), stubConfig(5), gen, stubAnalyzer{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeGeneration))
}

func TestRunner_BestEffortRecordsFailures(t *testing.T) {
	gen := stubGenerator{failOn: map[int]bool{3: true, 11: true}}
	run, err := NewRunner(WithBestEffort()).Run(context.Background(), stubConfig(5), gen, stubAnalyzer{})
	require.NoError(t, err)

	require.Len(t, run.Failures, 2)
	assert.Equal(t, 3, run.Failures[0].Index)
	assert.Equal(t, 11, run.Failures[1].Index)
	assert.Len(t, run.Results, 18)
	for _, rr := range run.Results {
		assert.NotEqual(t, 3, rr.Row.Index)
		assert.NotEqual(t, 11, rr.Row.Index)
	}
}

func TestRunner_RowTimeout(t *testing.T) {
	cfg := grid.Config{
		Name:       "slow",
		Iterations: 1,
		Seed:       1,
		Params:     []grid.Param{{Name: "n", Values: []any{1}}},
	}
	_, err := NewRunner(WithRowTimeout(10 * time.Millisecond)).
		Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{delay: time.Second})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAnalysis))
}

func TestRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner().Run(ctx, stubConfig(5), stubGenerator{}, stubAnalyzer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := grid.Config{Name: "bad", Iterations: 0}
	_, err := NewRunner().Run(context.Background(), cfg, stubGenerator{}, stubAnalyzer{})
	assert.True(t, errors.HasCode(err, errors.CodeConfig))
}
