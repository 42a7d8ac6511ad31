package analyze

import (
	"context"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
	"gomonte/ports"
)

func init() {
	Register("adaptive", func() ports.Analyzer { return Adaptive{} })
}

// Adaptive is the conditional two-group comparison taught as the
// "check assumptions first" workflow: run Shapiro-Wilk on each group,
// and if either group's p-value falls strictly below Alpha, report the
// Mann-Whitney result instead of Welch's t-test. The decision is made
// exactly once per dataset and carried on the record as its Path, so a
// summary can count how often each route fired without re-deriving it.
type Adaptive struct{}

func (Adaptive) Name() string { return "adaptive" }

func (Adaptive) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	g1 := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	g2 := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)

	_, p1, err := shapiroWilk(g1)
	if err != nil {
		return result.Record{}, err
	}
	_, p2, err := shapiroWilk(g2)
	if err != nil {
		return result.Record{}, err
	}

	violated := p1 < Alpha || p2 < Alpha

	var rec result.Record
	if violated {
		rec, err = mannWhitneyRecord(g1, g2)
		if err != nil {
			return result.Record{}, err
		}
		rec.Path = result.PathNonparametric
	} else {
		rec, err = welchRecord(g1, g2)
		if err != nil {
			return result.Record{}, err
		}
		rec.Path = result.PathParametric
	}
	rec.Set("shapiro_p1", p1)
	rec.Set("shapiro_p2", p2)
	return rec, nil
}
