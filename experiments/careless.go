package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("careless-responding", carelessResponding)
}

// carelessResponding contaminates a true rho = 0.4 correlation with a
// growing share of uniform random responders. Because careless answers
// sit at the scale midpoint on average, the observed correlation decays
// faster than intuition suggests.
func carelessResponding() *Experiment {
	return &Experiment{
		Description: "uniform random responders dilute a true correlation",
		Config: grid.Config{
			Name:       "careless-responding",
			Iterations: 500,
			Seed:       55,
			Params: []grid.Param{
				{Name: "prop_careless", Values: []any{0.0, 0.05, 0.1, 0.2}},
				{Name: "n", Values: []any{300}},
				{Name: "rho", Values: []any{0.4}},
			},
		},
		Generator: generate.CarelessMixture{},
		Analyzer:  analyze.Pearson{},
		Reductions: []app.Reduction{
			{Name: "mean_r", Kind: app.ReduceMean, Metric: result.MetricEstimate},
			{Name: "bias_r", Kind: app.ReduceBias, Metric: result.MetricEstimate, Target: 0.4},
			{Name: "significant", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
		},
	}
}
