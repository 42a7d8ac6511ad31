package experiments

import (
	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/domain/result"
)

func init() {
	register("assumption-dispatch", assumptionDispatch)
}

// assumptionDispatch runs the "check normality, then choose your test"
// workflow across skewed and clean populations. The path-share column
// shows how rarely the check fires at small n even under heavy skew,
// which is the low-power lesson.
func assumptionDispatch() *Experiment {
	return &Experiment{
		Description: "normality-gated test choice under varied skew and n",
		Config: grid.Config{
			Name:       "assumption-dispatch",
			Iterations: 500,
			Seed:       1234,
			Params: []grid.Param{
				{Name: "n", Values: []any{15, 50, 150}},
				{Name: "skew1", Values: []any{0.0, 8.0}},
				{Name: "skew2", Values: []any{0.0, 8.0}},
			},
		},
		Generator: generate.TwoGroup{},
		Analyzer:  analyze.Adaptive{},
		Reductions: []app.Reduction{
			{Name: "significant", Kind: app.ReduceProportion, Metric: result.MetricPValue, Threshold: analyze.Alpha},
			{Name: "share_nonparametric", Kind: app.ReducePathShare, Path: result.PathNonparametric},
			{Name: "mean_shapiro_p1", Kind: app.ReduceMean, Metric: "shapiro_p1"},
		},
	}
}
