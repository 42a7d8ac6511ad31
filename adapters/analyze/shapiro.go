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
	Register("shapiro-wilk", func() ports.Analyzer { return ShapiroWilk{} })
}

// ShapiroWilk runs the Shapiro-Wilk normality test on the pooled score
// column, using Royston's AS R94 approximation for the coefficients and
// the p-value. Valid for 3 <= n <= 5000.
type ShapiroWilk struct{}

func (ShapiroWilk) Name() string { return "shapiro-wilk" }

func (ShapiroWilk) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	xs := ds.Column(dataset.FieldScore)
	w, p, err := shapiroWilk(xs)
	if err != nil {
		return result.Record{}, err
	}
	rec := result.New().
		Set(result.MetricStat, w).
		Set(result.MetricPValue, p).
		Set(result.MetricN, float64(len(xs)))
	return rec, nil
}

// shapiroWilk computes the W statistic and its p-value (Royston 1992,
// 1995; Applied Statistics algorithm R94).
func shapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 {
		return 0, 0, errors.Newf(errors.CodeAnalysis, "shapiro-wilk: need at least 3 observations, got %d", n)
	}
	if n > 5000 {
		return 0, 0, errors.Newf(errors.CodeAnalysis, "shapiro-wilk: n=%d exceeds the 5000 limit of the approximation", n)
	}

	y := make([]float64, n)
	copy(y, x)
	sort.Float64s(y)
	if y[0] == y[n-1] {
		return 0, 0, errors.New(errors.CodeAnalysis, "shapiro-wilk: constant input")
	}

	// Expected normal order statistics (Blom approximation) and their
	// normalized weights.
	m := make([]float64, n)
	ssm := 0.0
	for i := 0; i < n; i++ {
		m[i] = stdNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		ssm += m[i] * m[i]
	}

	a := make([]float64, n)
	switch {
	case n == 3:
		a[0] = -math.Sqrt(0.5)
		a[2] = math.Sqrt(0.5)
	default:
		u := 1 / math.Sqrt(float64(n))
		rms := math.Sqrt(ssm)
		an := m[n-1]/rms + u*(0.221157+u*(-0.147981+u*(-2.071190+u*(4.434685+u*(-2.706056)))))
		if n <= 5 {
			phi := (ssm - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
			for i := 1; i < n-1; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
			a[n-1] = an
			a[0] = -an
		} else {
			an1 := m[n-2]/rms + u*(0.042981+u*(-0.293762+u*(-1.752461+u*(5.682633+u*(-3.582633)))))
			phi := (ssm - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
			for i := 2; i < n-2; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
			a[n-1] = an
			a[n-2] = an1
			a[0] = -an
			a[1] = -an1
		}
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	num, den := 0.0, 0.0
	for i, v := range y {
		num += a[i] * v
		den += (v - mean) * (v - mean)
	}
	w = num * num / den
	if w > 1 {
		w = 1
	}

	// p-value via the normalizing transforms of W.
	switch {
	case n == 3:
		p = 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		p = math.Min(math.Max(p, 0), 1)
	case n <= 11:
		fn := float64(n)
		g := -2.273 + 0.459*fn
		lw := -math.Log(g - math.Log(1-w))
		mu := 0.5440 + fn*(-0.39978+fn*(0.025054+fn*(-0.0006714)))
		sigma := math.Exp(1.3822 + fn*(-0.77857+fn*(0.062767+fn*(-0.0020322))))
		p = 1 - stdNormal.CDF((lw-mu)/sigma)
	default:
		ln := math.Log(float64(n))
		lw := math.Log(1 - w)
		mu := -1.5861 + ln*(-0.31082+ln*(-0.083751+ln*0.0038915))
		sigma := math.Exp(-0.4803 + ln*(-0.082676+ln*0.0030302))
		p = 1 - stdNormal.CDF((lw-mu)/sigma)
	}
	return w, p, nil
}
