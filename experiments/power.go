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
	register("power-curve", powerCurve)
}

// powerCurve holds the true effect fixed and sweeps the per-group sample
// size: the proportion of significant results climbs with n.
func powerCurve() *Experiment {
	return &Experiment{
		Description: "fixed true effect, varied n: power grows with sample size",
		Config: grid.Config{
			Name:       "power-curve",
			Iterations: 1000,
			Seed:       7,
			Params: []grid.Param{
				{Name: "n", Values: []any{10, 20, 40, 80, 160}},
				{Name: "mean2", Values: []any{0.5}},
			},
		},
		Generator: generate.TwoGroup{},
		Analyzer:  analyze.Welch{},
		Reductions: []app.Reduction{
			{Name: "power", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
			{Name: "mean_d", Kind: app.ReduceMean, Metric: result.MetricEffect},
			{Name: "mean_ci_lower", Kind: app.ReduceMean, Metric: result.MetricCILower},
			{Name: "mean_ci_upper", Kind: app.ReduceMean, Metric: result.MetricCIUpper},
		},
		Multiverse: &plot.MultiverseSpec{
			Title:   "Power across sample sizes",
			Outcome: "power",
			Cutoff:  floatPtr(0.80),
		},
	}
}

func floatPtr(v float64) *float64 { return &v }
