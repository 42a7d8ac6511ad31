package generate

import (
	"context"
	"math"
	"math/rand/v2"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("truncated", func() ports.Generator { return Truncated{} })
}

// maxRejectionDraws bounds rejection sampling so a window with almost no
// probability mass fails instead of spinning.
const maxRejectionDraws = 100000

// Truncated draws a single group of scores from N(mean, sd) truncated to
// [lower, upper] by rejection sampling. Bounded response scales (sum
// scores, Likert composites) are the classroom motivation.
//
// Parameters:
//
//	n      sample size (required)
//	mean   location (default 0)
//	sd     scale (default 1)
//	lower  lower bound (default -Inf)
//	upper  upper bound (default +Inf)
type Truncated struct{}

func (Truncated) Name() string { return "truncated" }

func (Truncated) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	mean, err := row.FloatOr("mean", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sd, err := row.FloatOr("sd", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd", sd); err != nil {
		return dataset.Dataset{}, err
	}
	lower, err := row.FloatOr("lower", math.Inf(-1))
	if err != nil {
		return dataset.Dataset{}, err
	}
	upper, err := row.FloatOr("upper", math.Inf(1))
	if err != nil {
		return dataset.Dataset{}, err
	}
	if lower >= upper {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "empty truncation window [%v, %v]", lower, upper)
	}

	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, n)}
	draws := 0
	for len(ds.Rows) < n {
		if draws >= maxRejectionDraws {
			return dataset.Dataset{}, errors.Newf(errors.CodeGeneration,
				"truncation window [%v, %v] exhausted %d draws from N(%v, %v) before filling n=%d", lower, upper, draws, mean, sd, n)
		}
		draws++
		v := drawNormal(rnd, mean, sd)
		if v < lower || v > upper {
			continue
		}
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group:  dataset.GroupControl,
			Values: map[string]float64{dataset.FieldScore: v},
		})
	}
	return ds, nil
}
