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
	Register("paired-t", func() ports.Analyzer { return PairedT{} })
}

// PairedT runs a paired t-test on the pre/post columns. The estimate is
// the mean post-minus-pre change; the standardized effect is d_z, the
// mean change over the SD of the change scores.
type PairedT struct{}

func (PairedT) Name() string { return "paired-t" }

func (PairedT) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	pre := ds.Column(dataset.FieldPre)
	post := ds.Column(dataset.FieldPost)
	if len(pre) != len(post) {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "paired-t: unpaired columns (%d pre, %d post)", len(pre), len(post))
	}

	diffs := make([]float64, len(pre))
	for i := range pre {
		diffs[i] = post[i] - pre[i]
	}
	mean, sd, err := meanSD("paired-t change scores", diffs)
	if err != nil {
		return result.Record{}, err
	}

	n := float64(len(diffs))
	se := sd / math.Sqrt(n)
	t := mean / se
	df := n - 1
	p := tTwoTailedP(t, df)
	crit := tCritical(df, 0.95)

	rec := result.New().
		Set(result.MetricEstimate, mean).
		Set(result.MetricEffect, mean/sd).
		Set(result.MetricPValue, p).
		Set(result.MetricCILower, mean-crit*se).
		Set(result.MetricCIUpper, mean+crit*se).
		Set(result.MetricStat, t).
		Set(result.MetricDF, df).
		Set(result.MetricN, n)
	return rec, nil
}
