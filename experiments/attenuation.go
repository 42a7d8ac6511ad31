package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("correlation-attenuation", correlationAttenuation)
}

// correlationAttenuation restricts a rho = 0.6 bivariate population to
// the upper quartile of x and watches the observed correlation drop,
// then applies the Thorndike case-2 correction to climb back toward the
// population value.
func correlationAttenuation() *Experiment {
	return &Experiment{
		Description: "selection on x attenuates r; the variance-ratio correction recovers it",
		Config: grid.Config{
			Name:       "correlation-attenuation",
			Iterations: 200,
			Seed:       2024,
			Params: []grid.Param{
				{Name: "select_q", Values: []any{0.0, 0.5, 0.75}},
				{Name: "pop_n", Values: []any{10000}},
				{Name: "rho", Values: []any{0.6}},
			},
		},
		Generator: generate.SelectedBivariate{},
		Analyzer:  analyze.Pearson{PopSDX: 1},
		Reductions: []app.Reduction{
			{Name: "mean_r", Kind: app.ReduceMean, Metric: result.MetricEstimate},
			{Name: "mean_r_corrected", Kind: app.ReduceMean, Metric: "r_corrected"},
			{Name: "bias_r", Kind: app.ReduceBias, Metric: result.MetricEstimate, Target: 0.6},
			{Name: "mean_sd_x", Kind: app.ReduceMean, Metric: "sd_x"},
		},
	}
}
