package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/adapters/plot"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("range-restriction", rangeRestriction)
}

// rangeRestriction admits both groups through an increasingly tight
// screening window before the comparison. Selection operates on the
// screener, not on the outcome, so the raw mean difference stays put
// while the pooled SD shrinks and Cohen's d inflates, the central
// demonstration that standardized effects are not portable across
// selected samples. The lower bound of -6 on a unit-normal screener is
// the effectively unrestricted baseline.
func rangeRestriction() *Experiment {
	return &Experiment{
		Description: "screening window shrinks SD and inflates d while the raw difference holds",
		Config: grid.Config{
			Name:       "range-restriction",
			Iterations: 500,
			Seed:       99,
			Params: []grid.Param{
				{Name: "lower", Values: []any{-6.0, 0.0, 0.75}},
				{Name: "n", Values: []any{50}},
				{Name: "pop_n", Values: []any{4000}},
				{Name: "mean2", Values: []any{0.5}},
				{Name: "validity", Values: []any{0.8}},
			},
		},
		Generator: generate.SelectedTwoGroup{},
		Analyzer:  analyze.Welch{},
		Reductions: []app.Reduction{
			{Name: "mean_raw_diff", Kind: app.ReduceMean, Metric: result.MetricEstimate},
			{Name: "mean_sd_pooled", Kind: app.ReduceMean, Metric: "sd_pooled"},
			{Name: "mean_d", Kind: app.ReduceMean, Metric: result.MetricEffect},
			{Name: "significant", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
		},
		Multiverse: &plot.MultiverseSpec{
			Title:   "Cohen's d under range restriction",
			Outcome: "mean_d",
		},
	}
}
