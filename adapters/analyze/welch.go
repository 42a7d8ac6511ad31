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
	Register("welch", func() ports.Analyzer { return Welch{} })
}

// Welch runs Welch's unequal-variance t-test on the two group score
// columns. The estimate is the raw treatment-minus-control mean
// difference; the standardized effect is Cohen's d on the pooled SD.
type Welch struct{}

func (Welch) Name() string { return "welch" }

func (Welch) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	g1 := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	g2 := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)
	return welchRecord(g1, g2)
}

func welchRecord(control, treatment []float64) (result.Record, error) {
	mean1, sd1, err := meanSD("welch control group", control)
	if err != nil {
		return result.Record{}, err
	}
	mean2, sd2, err := meanSD("welch treatment group", treatment)
	if err != nil {
		return result.Record{}, err
	}

	n1 := float64(len(control))
	n2 := float64(len(treatment))
	var1 := sd1 * sd1
	var2 := sd2 * sd2

	se := math.Sqrt(var1/n1 + var2/n2)
	diff := mean2 - mean1
	t := diff / se

	// Welch-Satterthwaite degrees of freedom.
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
	if math.IsNaN(df) || df <= 0 {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "welch: degenerate degrees of freedom (df=%v)", df)
	}

	p := tTwoTailedP(t, df)
	crit := tCritical(df, 0.95)

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	d := diff / pooledSD

	rec := result.New().
		Set(result.MetricEstimate, diff).
		Set(result.MetricEffect, d).
		Set(result.MetricPValue, p).
		Set(result.MetricCILower, diff-crit*se).
		Set(result.MetricCIUpper, diff+crit*se).
		Set(result.MetricStat, t).
		Set(result.MetricDF, df).
		Set(result.MetricN, n1+n2).
		Set("mean1", mean1).
		Set("mean2", mean2).
		Set("sd_pooled", pooledSD)
	return rec, nil
}
