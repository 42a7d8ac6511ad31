package ports

import (
	"context"
	"math/rand/v2"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
)

// Generator produces one synthetic dataset for one condition row. All
// randomness must come from the supplied stream so that rows stay
// independently reproducible.
type Generator interface {
	// Name identifies the generator in configs and run manifests.
	Name() string

	// Generate builds the dataset for the row. Degenerate parameters
	// (negative scale, impossible selection) must fail, not silently
	// clamp.
	Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error)
}
