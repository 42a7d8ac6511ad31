package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("pre-post-gain", prePostGain)
}

// prePostGain pairs baseline and follow-up scores and tests the mean
// change. The gain = 0 conditions double as a negative control for the
// paired test's false-positive rate.
func prePostGain() *Experiment {
	return &Experiment{
		Description: "paired design: detecting a mean change against individual noise",
		Config: grid.Config{
			Name:       "pre-post-gain",
			Iterations: 1000,
			Seed:       31,
			Params: []grid.Param{
				{Name: "n", Values: []any{20, 50}},
				{Name: "gain", Values: []any{0.0, 0.3}},
				{Name: "sd_gain", Values: []any{0.5}},
			},
		},
		Generator: generate.PrePost{},
		Analyzer:  analyze.PairedT{},
		Reductions: []app.Reduction{
			{Name: "significant", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
			{Name: "mean_gain", Kind: app.ReduceMean, Metric: result.MetricEstimate},
			{Name: "mean_dz", Kind: app.ReduceMean, Metric: result.MetricEffect},
		},
	}
}
