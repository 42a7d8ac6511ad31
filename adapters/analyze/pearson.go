package analyze

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("pearson", func() ports.Analyzer { return Pearson{} })
	Register("pearson-corrected", func() ports.Analyzer { return Pearson{PopSDX: 1} })
}

// Pearson runs the Pearson correlation test on the x/y columns: the
// t-transform for the p-value and a Fisher-z confidence interval.
//
// When PopSDX is set, the record additionally carries a Thorndike case-2
// de-attenuation of the correlation for direct range restriction on x,
// using the ratio of the unrestricted population SD to the observed SD.
type Pearson struct {
	PopSDX float64
}

func (a Pearson) Name() string {
	if a.PopSDX > 0 {
		return "pearson-corrected"
	}
	return "pearson"
}

func (a Pearson) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	xs := ds.Column(dataset.FieldX)
	ys := ds.Column(dataset.FieldY)
	if len(xs) != len(ys) {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "pearson: unpaired columns (%d x, %d y)", len(xs), len(ys))
	}
	if len(xs) < 4 {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "pearson: need at least 4 pairs, got %d", len(xs))
	}
	_, sdX, err := meanSD("pearson x", xs)
	if err != nil {
		return result.Record{}, err
	}
	if _, _, err := meanSD("pearson y", ys); err != nil {
		return result.Record{}, err
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return result.Record{}, errors.New(errors.CodeAnalysis, "pearson: correlation undefined")
	}
	if r >= 1 || r <= -1 {
		// Perfectly collinear columns break the t-transform.
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "pearson: degenerate correlation r=%v", r)
	}

	n := float64(len(xs))
	df := n - 2
	t := r * math.Sqrt(df/(1-r*r))
	p := tTwoTailedP(t, df)

	// Fisher z interval.
	z := 0.5 * math.Log((1+r)/(1-r))
	zse := 1 / math.Sqrt(n-3)
	zcrit := stdNormal.Quantile(0.975)
	lo := math.Tanh(z - zcrit*zse)
	hi := math.Tanh(z + zcrit*zse)

	rec := result.New().
		Set(result.MetricEstimate, r).
		Set(result.MetricEffect, r).
		Set(result.MetricPValue, p).
		Set(result.MetricCILower, lo).
		Set(result.MetricCIUpper, hi).
		Set(result.MetricStat, t).
		Set(result.MetricDF, df).
		Set(result.MetricN, n).
		Set("sd_x", sdX)

	if a.PopSDX > 0 {
		ratio := a.PopSDX / sdX
		corrected := r * ratio / math.Sqrt(1-r*r+r*r*ratio*ratio)
		rec.Set("r_corrected", corrected)
	}
	return rec, nil
}
