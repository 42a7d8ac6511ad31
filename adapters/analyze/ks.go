package analyze

import (
	"context"
	"math"
	"sort"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("ks-normal", func() ports.Analyzer { return KSNormal{} })
}

// KSNormal runs the one-sample Kolmogorov-Smirnov test of the pooled
// score column against a normal with the sample's own mean and SD,
// mirroring the classroom ks.test(x, "pnorm", mean(x), sd(x)) call. The
// p-value uses the asymptotic Kolmogorov distribution with the usual
// small-sample adjustment of the statistic.
type KSNormal struct{}

func (KSNormal) Name() string { return "ks-normal" }

func (KSNormal) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	xs := ds.Column(dataset.FieldScore)
	if len(xs) < 4 {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "ks-normal: need at least 4 observations, got %d", len(xs))
	}
	mean, sd, err := meanSD("ks-normal", xs)
	if err != nil {
		return result.Record{}, err
	}

	y := make([]float64, len(xs))
	copy(y, xs)
	sort.Float64s(y)

	n := float64(len(y))
	d := 0.0
	for i, v := range y {
		cdf := stdNormal.CDF((v - mean) / sd)
		upper := float64(i+1)/n - cdf
		lower := cdf - float64(i)/n
		d = math.Max(d, math.Max(upper, lower))
	}

	lambda := (math.Sqrt(n) + 0.12 + 0.11/math.Sqrt(n)) * d
	p := kolmogorovTail(lambda)

	rec := result.New().
		Set(result.MetricStat, d).
		Set(result.MetricPValue, p).
		Set(result.MetricN, n)
	return rec, nil
}

// kolmogorovTail evaluates the asymptotic Kolmogorov survival function
// Q(lambda) = 2 * sum_{k>=1} (-1)^{k-1} exp(-2 k^2 lambda^2).
func kolmogorovTail(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := math.Exp(-2 * float64(k*k) * lambda * lambda)
		sum += sign * term
		if term < 1e-10 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	return math.Min(math.Max(p, 0), 1)
}
