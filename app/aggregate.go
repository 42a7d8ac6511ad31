package app

import (
	"strings"

	"github.com/montanaflynn/stats"

	"gomonte/domain/result"
	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

// ReductionKind selects how a metric is reduced across iterations.
type ReductionKind string

const (
	// ReduceMean is the arithmetic mean of a metric.
	ReduceMean ReductionKind = "mean"
	// ReduceProportion is the fraction of records whose metric falls
	// strictly below Threshold (the p < .05 convention).
	ReduceProportion ReductionKind = "proportion"
	// ReduceBias is the mean signed difference from Target.
	ReduceBias ReductionKind = "bias"
	// ReduceAbsBias is the mean absolute difference from Target.
	ReduceAbsBias ReductionKind = "abs_bias"
	// ReducePathShare is the fraction of records routed down Path by a
	// conditional analyzer.
	ReducePathShare ReductionKind = "path_share"
)

// Reduction declares one summary statistic.
type Reduction struct {
	Name      string        `json:"name" yaml:"name"`
	Kind      ReductionKind `json:"kind" yaml:"kind"`
	Metric    string        `json:"metric,omitempty" yaml:"metric,omitempty"`
	Threshold float64       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Target    float64       `json:"target,omitempty" yaml:"target,omitempty"`
	Path      result.Path   `json:"path,omitempty" yaml:"path,omitempty"`
}

const groupKeySep = "\x1f"

// Aggregate groups a run's results by every varied parameter and reduces
// each group across its iterations. The grouping key is not a choice:
// it is validated to be exactly the set of parameters declared with more
// than one distinct candidate, because grouping by a subset silently
// conflates distinct conditions.
func Aggregate(run *RunResult, reductions []Reduction) (summary.Table, error) {
	return AggregateBy(run, run.Config.Varied(), reductions)
}

// AggregateBy is Aggregate with an explicit grouping key, for callers
// that carry the key around; the key must still match the varied
// parameters exactly.
func AggregateBy(run *RunResult, groupBy []string, reductions []Reduction) (summary.Table, error) {
	if len(reductions) == 0 {
		return summary.Table{}, errors.New(errors.CodeAggregation, "no reductions declared")
	}
	varied := run.Config.Varied()
	if err := sameKeySet(groupBy, varied); err != nil {
		return summary.Table{}, err
	}

	table := summary.Table{
		Experiment: run.Config.Name,
		GroupCols:  append([]string(nil), varied...),
	}
	for _, red := range reductions {
		table.StatCols = append(table.StatCols, red.Name)
	}

	// Group in first-seen (grid) order so output is deterministic.
	type bucket struct {
		params  map[string]any
		records []result.Record
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, rr := range run.Results {
		var parts []string
		params := make(map[string]any, len(varied))
		for _, name := range varied {
			v, ok := rr.Row.Params[name]
			if !ok {
				return summary.Table{}, errors.Newf(errors.CodeAggregation, "row %d missing varied parameter %q", rr.Row.Index, name)
			}
			params[name] = v
			parts = append(parts, summary.Cell(v))
		}
		key := strings.Join(parts, groupKeySep)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{params: params}
			buckets[key] = b
			order = append(order, key)
		}
		b.records = append(b.records, rr.Record)
	}

	for _, key := range order {
		b := buckets[key]
		row := summary.Record{
			Params: b.params,
			Stats:  make(map[string]float64, len(reductions)),
		}
		for _, red := range reductions {
			v, err := reduce(red, b.records)
			if err != nil {
				return summary.Table{}, err
			}
			row.Stats[red.Name] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func reduce(red Reduction, records []result.Record) (float64, error) {
	if len(records) == 0 {
		return 0, errors.Newf(errors.CodeAggregation, "reduction %q: empty group", red.Name)
	}

	if red.Kind == ReducePathShare {
		hits := 0
		for _, rec := range records {
			if rec.Path == red.Path {
				hits++
			}
		}
		return float64(hits) / float64(len(records)), nil
	}

	values := make([]float64, 0, len(records))
	for _, rec := range records {
		v, ok := rec.Get(red.Metric)
		if !ok {
			return 0, errors.Newf(errors.CodeAggregation, "reduction %q: metric %q missing from a result record", red.Name, red.Metric)
		}
		values = append(values, v)
	}

	switch red.Kind {
	case ReduceMean:
		return stats.Mean(values)
	case ReduceProportion:
		hits := 0
		for _, v := range values {
			if v < red.Threshold {
				hits++
			}
		}
		return float64(hits) / float64(len(values)), nil
	case ReduceBias:
		diffs := make([]float64, len(values))
		for i, v := range values {
			diffs[i] = v - red.Target
		}
		return stats.Mean(diffs)
	case ReduceAbsBias:
		diffs := make([]float64, len(values))
		for i, v := range values {
			if d := v - red.Target; d < 0 {
				diffs[i] = -d
			} else {
				diffs[i] = d
			}
		}
		return stats.Mean(diffs)
	}
	return 0, errors.Newf(errors.CodeAggregation, "reduction %q: unknown kind %q", red.Name, red.Kind)
}

// sameKeySet verifies that the grouping key is exactly the varied
// parameter set, order aside.
func sameKeySet(groupBy, varied []string) error {
	got := make(map[string]bool, len(groupBy))
	for _, k := range groupBy {
		got[k] = true
	}
	want := make(map[string]bool, len(varied))
	for _, k := range varied {
		want[k] = true
	}
	for _, k := range varied {
		if !got[k] {
			return errors.Newf(errors.CodeAggregation, "grouping key omits varied parameter %q; distinct conditions would be conflated", k)
		}
	}
	for _, k := range groupBy {
		if !want[k] {
			return errors.Newf(errors.CodeAggregation, "grouping key includes %q, which is not a varied parameter", k)
		}
	}
	if len(got) != len(groupBy) {
		return errors.New(errors.CodeAggregation, "grouping key contains duplicates")
	}
	return nil
}
