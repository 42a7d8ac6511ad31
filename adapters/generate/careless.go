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
	Register("careless-mixture", func() ports.Generator { return CarelessMixture{} })
}

// CarelessMixture simulates careless responding in a correlational study:
// a "careful" subpopulation answers two scales that truly correlate, and
// a "careless" subpopulation answers both scales uniformly at random
// within the response bounds. Rows carry their subpopulation of origin so
// single-iteration diagnostics can color them.
//
// Parameters:
//
//	n              total sample size (required)
//	rho            population correlation of the careful subpopulation (required)
//	prop_careless  fraction of careless respondents in [0, 1) (default 0)
//	mean           careful location on both scales (default 3)
//	sd             careful scale on both scales (default 0.8)
//	min, max       response bounds for careless draws (default 1 and 5)
type CarelessMixture struct{}

func (CarelessMixture) Name() string { return "careless-mixture" }

func (CarelessMixture) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	rho, err := row.Float("rho")
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkCorrelation("rho", rho); err != nil {
		return dataset.Dataset{}, err
	}
	prop, err := row.FloatOr("prop_careless", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if prop < 0 || prop >= 1 {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "prop_careless must lie in [0, 1), got %v", prop)
	}
	mean, err := row.FloatOr("mean", 3)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sd, err := row.FloatOr("sd", 0.8)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd", sd); err != nil {
		return dataset.Dataset{}, err
	}
	lo, err := row.FloatOr("min", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	hi, err := row.FloatOr("max", 5)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if lo >= hi {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "empty response bounds [%v, %v]", lo, hi)
	}

	nCareless := int(math.Round(prop * float64(n)))
	nCareful := n - nCareless

	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, n)}
	for i := 0; i < nCareful; i++ {
		x, y := drawBivariateNormal(rnd, mean, sd, mean, sd, rho)
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group:  dataset.GroupControl,
			Tag:    dataset.TagCareful,
			Values: map[string]float64{dataset.FieldX: x, dataset.FieldY: y},
		})
	}
	for i := 0; i < nCareless; i++ {
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group: dataset.GroupControl,
			Tag:   dataset.TagCareless,
			Values: map[string]float64{
				dataset.FieldX: lo + (hi-lo)*rnd.Float64(),
				dataset.FieldY: lo + (hi-lo)*rnd.Float64(),
			},
		})
	}
	return ds, nil
}
