package analyze

import (
	"context"
	"math"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("mann-whitney", func() ports.Analyzer { return MannWhitney{} })
}

// MannWhitney runs the Wilcoxon rank-sum (Mann-Whitney U) test on the
// two group score columns, with the tie-corrected normal approximation
// and continuity correction. The standardized effect is the rank-biserial
// correlation.
type MannWhitney struct{}

func (MannWhitney) Name() string { return "mann-whitney" }

func (MannWhitney) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	g1 := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	g2 := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)
	return mannWhitneyRecord(g1, g2)
}

func mannWhitneyRecord(control, treatment []float64) (result.Record, error) {
	n1 := len(control)
	n2 := len(treatment)
	if n1 < 2 || n2 < 2 {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "mann-whitney: need at least 2 per group, got %d and %d", n1, n2)
	}

	pooled := make([]float64, 0, n1+n2)
	pooled = append(pooled, control...)
	pooled = append(pooled, treatment...)
	ranks, tieSizes := averageRanks(pooled)

	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}

	fn1 := float64(n1)
	fn2 := float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	u := math.Min(u1, u2)

	nt := fn1 + fn2
	if len(tieSizes) == 1 {
		return result.Record{}, errors.New(errors.CodeAnalysis, "mann-whitney: all pooled values tied")
	}
	tieSum := 0.0
	for _, s := range tieSizes {
		tieSum += float64(s*s*s - s)
	}

	muU := fn1 * fn2 / 2
	varU := fn1 * fn2 / 12 * ((nt + 1) - tieSum/(nt*(nt-1)))
	if varU <= 0 {
		return result.Record{}, errors.New(errors.CodeAnalysis, "mann-whitney: zero variance after tie correction")
	}

	// Continuity-corrected two-tailed p.
	z := (u - muU + 0.5) / math.Sqrt(varU)
	p := 2 * stdNormal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	// Rank-biserial correlation, signed so treatment > control is positive.
	// u1 counts control wins, so the sign flips.
	rb := -(2*u1/(fn1*fn2) - 1)

	rec := result.New().
		Set(result.MetricEstimate, u1).
		Set(result.MetricEffect, rb).
		Set(result.MetricPValue, p).
		Set(result.MetricStat, z).
		Set(result.MetricN, nt)
	return rec, nil
}
