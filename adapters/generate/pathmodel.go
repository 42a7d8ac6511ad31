package generate

import (
	"context"
	"math/rand/v2"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("path-model", func() ports.Generator { return PathModel{} })
}

// PathModel draws (x, m, y) triples under one of two causal structures.
// "mediation" is the textbook chain x -> m -> y plus a direct path.
// "collider" makes m a common effect of x and y, the structure that
// masquerades as a mediator when analyzed naively.
//
// Parameters:
//
//	n          sample size (required)
//	structure  "mediation" or "collider" (default "mediation")
//	a          x -> m path (default 0.5)
//	b          m -> y path (mediation), or y -> m path (collider) (default 0.5)
//	c          direct x -> y path (default 0)
//	sd_m, sd_y residual scales (default 1)
type PathModel struct{}

func (PathModel) Name() string { return "path-model" }

func (PathModel) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	structure, err := row.StringOr("structure", "mediation")
	if err != nil {
		return dataset.Dataset{}, err
	}
	a, err := row.FloatOr("a", 0.5)
	if err != nil {
		return dataset.Dataset{}, err
	}
	b, err := row.FloatOr("b", 0.5)
	if err != nil {
		return dataset.Dataset{}, err
	}
	c, err := row.FloatOr("c", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sdM, err := row.FloatOr("sd_m", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sdY, err := row.FloatOr("sd_y", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd_m", sdM); err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd_y", sdY); err != nil {
		return dataset.Dataset{}, err
	}

	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, n)}
	for i := 0; i < n; i++ {
		x := rnd.NormFloat64()
		var m, y float64
		switch structure {
		case "mediation":
			m = a*x + sdM*rnd.NormFloat64()
			y = c*x + b*m + sdY*rnd.NormFloat64()
		case "collider":
			y = c*x + sdY*rnd.NormFloat64()
			m = a*x + b*y + sdM*rnd.NormFloat64()
		default:
			return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "unknown structure %q, want mediation or collider", structure)
		}
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group: dataset.GroupControl,
			Values: map[string]float64{
				dataset.FieldX: x,
				dataset.FieldM: m,
				dataset.FieldY: y,
			},
		})
	}
	return ds, nil
}
