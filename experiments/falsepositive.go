package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("false-positive-rate", falsePositiveRate)
}

// falsePositiveRate draws two groups from the same population and counts
// how often the t-test cries effect anyway. The long-run answer is the
// nominal alpha, whatever the sample size.
func falsePositiveRate() *Experiment {
	return &Experiment{
		Description: "null two-group comparison: proportion significant converges to alpha",
		Config: grid.Config{
			Name:       "false-positive-rate",
			Iterations: 1000,
			Seed:       42,
			Params: []grid.Param{
				{Name: "n", Values: []any{25, 50, 100}},
				{Name: "mean1", Values: []any{0.0}},
				{Name: "mean2", Values: []any{0.0}},
				{Name: "sd1", Values: []any{1.0}},
				{Name: "sd2", Values: []any{1.0}},
			},
		},
		Generator: generate.TwoGroup{},
		Analyzer:  analyze.Welch{},
		Reductions: []app.Reduction{
			{Name: "false_positive_rate", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
			{Name: "mean_d", Kind: app.ReduceMean, Metric: result.MetricEffect},
			{Name: "bias_d", Kind: app.ReduceBias, Metric: result.MetricEffect, Target: 0},
		},
	}
}
