package generate

import (
	"context"
	"math/rand/v2"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/ports"
)

func init() {
	Register("pre-post", func() ports.Generator { return PrePost{} })
}

// PrePost draws paired baseline/follow-up scores: post is the baseline
// plus a true gain plus optional noise. With sd_gain = 0 the follow-up is
// a deterministic offset of the baseline.
//
// Parameters:
//
//	n         sample size (required)
//	mean_pre  baseline location (default 0)
//	sd_pre    baseline scale (default 1)
//	gain      true mean change from pre to post (default 0)
//	sd_gain   scale of individual differences in change (default 0)
type PrePost struct{}

func (PrePost) Name() string { return "pre-post" }

func (PrePost) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	meanPre, err := row.FloatOr("mean_pre", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sdPre, err := row.FloatOr("sd_pre", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd_pre", sdPre); err != nil {
		return dataset.Dataset{}, err
	}
	gain, err := row.FloatOr("gain", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sdGain, err := row.FloatOr("sd_gain", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}

	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, n)}
	for i := 0; i < n; i++ {
		pre := drawNormal(rnd, meanPre, sdPre)
		post := pre + gain
		if sdGain > 0 {
			post += sdGain * rnd.NormFloat64()
		}
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group:  dataset.GroupControl,
			Values: map[string]float64{dataset.FieldPre: pre, dataset.FieldPost: post},
		})
	}
	return ds, nil
}
