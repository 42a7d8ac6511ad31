package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonte/domain/grid"
	"gomonte/domain/result"
	"gomonte/internal/errors"
)

// fixedRun builds a RunResult by hand: 2x2 conditions, 3 iterations,
// with the p-value and estimate derived from the row index so every
// reduction has a known closed-form answer.
func fixedRun(t *testing.T) *RunResult {
	t.Helper()
	cfg := grid.Config{
		Name:       "fixed",
		Iterations: 3,
		Seed:       1,
		Params: []grid.Param{
			{Name: "n", Values: []any{10, 20}},
			{Name: "skew", Values: []any{0.0, 8.0}},
			{Name: "sd", Values: []any{1.0}},
		},
	}
	rows, err := grid.Expand(cfg)
	require.NoError(t, err)

	run := &RunResult{ID: "test", Config: cfg}
	for _, row := range rows {
		// p cycles 0.01, 0.04, 0.50 within each condition.
		p := []float64{0.01, 0.04, 0.50}[row.Iteration]
		rec := result.New().
			Set(result.MetricPValue, p).
			Set(result.MetricEstimate, float64(row.Index))
		if row.Iteration == 0 {
			rec.Path = result.PathNonparametric
		} else {
			rec.Path = result.PathParametric
		}
		run.Results = append(run.Results, RowResult{Row: row, Record: rec})
	}
	return run
}

func TestAggregate_GroupsByVariedParams(t *testing.T) {
	run := fixedRun(t)
	table, err := Aggregate(run, []Reduction{
		{Name: "sig", Kind: ReduceProportion, Metric: result.MetricPValue, Threshold: 0.05},
		{Name: "mean_est", Kind: ReduceMean, Metric: result.MetricEstimate},
		{Name: "share_np", Kind: ReducePathShare, Path: result.PathNonparametric},
	})
	require.NoError(t, err)

	assert.Equal(t, "fixed", table.Experiment)
	assert.Equal(t, []string{"n", "skew"}, table.GroupCols, "constant sd must not appear in the key")
	assert.Equal(t, []string{"sig", "mean_est", "share_np"}, table.StatCols)
	require.Len(t, table.Rows, 4, "one summary row per distinct condition")

	for _, row := range table.Rows {
		sig, ok := row.Stat("sig")
		require.True(t, ok)
		assert.InDelta(t, 2.0/3.0, sig, 1e-12, "p of 0.01 and 0.04 clear 0.05, 0.50 does not")

		np, ok := row.Stat("share_np")
		require.True(t, ok)
		assert.InDelta(t, 1.0/3.0, np, 1e-12)
	}

	// First condition holds rows 0..2, so its mean estimate is 1; rows
	// arrive in grid order, so summary rows do too.
	first, _ := table.Rows[0].Stat("mean_est")
	assert.InDelta(t, 1.0, first, 1e-12)
	last, _ := table.Rows[3].Stat("mean_est")
	assert.InDelta(t, 10.0, last, 1e-12)
}

func TestAggregate_NumericWidthIsOneCondition(t *testing.T) {
	cfg := grid.Config{
		Name:       "width",
		Iterations: 2,
		Seed:       1,
		Params:     []grid.Param{{Name: "mean", Values: []any{1, 1.0}}},
	}
	rows, err := grid.Expand(cfg)
	require.NoError(t, err)

	run := &RunResult{ID: "width", Config: cfg}
	for _, row := range rows {
		run.Results = append(run.Results, RowResult{
			Row:    row,
			Record: result.New().Set(result.MetricEstimate, 1),
		})
	}

	table, err := Aggregate(run, []Reduction{{Name: "m", Kind: ReduceMean, Metric: result.MetricEstimate}})
	require.NoError(t, err)

	// Int 1 and float 1.0 spell the same candidate, so the declared
	// condition count and the summary row count both stay 1.
	assert.Equal(t, 1, grid.Conditions(cfg))
	require.Len(t, table.Rows, 1)
	assert.Empty(t, table.GroupCols)
}

func TestAggregate_ProportionIsStrict(t *testing.T) {
	run := fixedRun(t)
	table, err := Aggregate(run, []Reduction{
		// Exactly-at-threshold values do not count.
		{Name: "at_p04", Kind: ReduceProportion, Metric: result.MetricPValue, Threshold: 0.04},
	})
	require.NoError(t, err)
	v, _ := table.Rows[0].Stat("at_p04")
	assert.InDelta(t, 1.0/3.0, v, 1e-12, "only 0.01 lies strictly below 0.04")
}

func TestAggregate_BiasKinds(t *testing.T) {
	run := fixedRun(t)
	table, err := Aggregate(run, []Reduction{
		{Name: "bias", Kind: ReduceBias, Metric: result.MetricEstimate, Target: 2},
		{Name: "abs_bias", Kind: ReduceAbsBias, Metric: result.MetricEstimate, Target: 2},
	})
	require.NoError(t, err)

	// First condition's estimates are 0, 1, 2 against target 2.
	bias, _ := table.Rows[0].Stat("bias")
	assert.InDelta(t, -1.0, bias, 1e-12)
	abs, _ := table.Rows[0].Stat("abs_bias")
	assert.InDelta(t, 1.0, abs, 1e-12)
}

func TestAggregateBy_KeyMustMatchVaried(t *testing.T) {
	run := fixedRun(t)
	reds := []Reduction{{Name: "m", Kind: ReduceMean, Metric: result.MetricEstimate}}

	// Omitting a varied parameter conflates conditions.
	_, err := AggregateBy(run, []string{"n"}, reds)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAggregation))

	// Grouping by a constant adds nothing but noise.
	_, err = AggregateBy(run, []string{"n", "skew", "sd"}, reds)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAggregation))

	// Order within the key is immaterial.
	_, err = AggregateBy(run, []string{"skew", "n"}, reds)
	assert.NoError(t, err)
}

func TestAggregate_Errors(t *testing.T) {
	run := fixedRun(t)

	_, err := Aggregate(run, nil)
	assert.True(t, errors.HasCode(err, errors.CodeAggregation), "reductions are mandatory")

	_, err = Aggregate(run, []Reduction{{Name: "m", Kind: ReduceMean, Metric: "no_such_metric"}})
	assert.True(t, errors.HasCode(err, errors.CodeAggregation))

	_, err = Aggregate(run, []Reduction{{Name: "m", Kind: ReductionKind("median"), Metric: result.MetricEstimate}})
	assert.True(t, errors.HasCode(err, errors.CodeAggregation))
}
