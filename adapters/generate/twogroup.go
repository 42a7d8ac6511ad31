package generate

import (
	"context"
	"math/rand/v2"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/ports"
)

func init() {
	Register("two-group", func() ports.Generator { return TwoGroup{} })
}

// TwoGroup draws two independent groups of scores from normal or
// skew-normal distributions with per-group location, scale, and shape.
//
// Parameters:
//
//	n              per-group sample size (required)
//	mean1, mean2   group locations (default 0)
//	sd1, sd2       group scales (default 1, must be positive)
//	skew1, skew2   skew-normal shape (default 0 = normal)
type TwoGroup struct{}

func (TwoGroup) Name() string { return "two-group" }

func (TwoGroup) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}

	groups := []struct {
		label                string
		meanKey, sdKey, aKey string
	}{
		{dataset.GroupControl, "mean1", "sd1", "skew1"},
		{dataset.GroupTreatment, "mean2", "sd2", "skew2"},
	}

	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, 2*n)}
	for _, g := range groups {
		mean, err := row.FloatOr(g.meanKey, 0)
		if err != nil {
			return dataset.Dataset{}, err
		}
		sd, err := row.FloatOr(g.sdKey, 1)
		if err != nil {
			return dataset.Dataset{}, err
		}
		if err := checkScale(g.sdKey, sd); err != nil {
			return dataset.Dataset{}, err
		}
		skew, err := row.FloatOr(g.aKey, 0)
		if err != nil {
			return dataset.Dataset{}, err
		}
		for i := 0; i < n; i++ {
			ds.Rows = append(ds.Rows, dataset.Observation{
				Group:  g.label,
				Values: map[string]float64{dataset.FieldScore: drawSkewNormal(rnd, mean, sd, skew)},
			})
		}
	}
	return ds, nil
}
