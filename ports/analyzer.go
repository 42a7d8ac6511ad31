package ports

import (
	"context"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
)

// Analyzer wraps exactly one statistical procedure and extracts its point
// estimates, interval bounds, and p-value into a flat result record.
type Analyzer interface {
	// Name identifies the analyzer in configs and run manifests.
	Name() string

	// Analyze computes the procedure on one generated dataset. A test
	// that cannot be computed (constant input, singular design) must
	// return an error rather than a placeholder record.
	Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error)
}
