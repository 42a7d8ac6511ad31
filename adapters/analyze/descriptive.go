package analyze

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gomonte/internal/errors"
)

// meanSD computes the sample mean and (n-1 denominator) standard
// deviation, rejecting samples too small or too degenerate to test.
func meanSD(name string, data []float64) (mean, sd float64, err error) {
	if len(data) < 2 {
		return 0, 0, errors.Newf(errors.CodeAnalysis, "%s: need at least 2 observations, got %d", name, len(data))
	}
	mean, _ = stats.Mean(data)
	sd, _ = stats.StandardDeviationSample(data)
	if sd == 0 || math.IsNaN(sd) {
		return 0, 0, errors.Newf(errors.CodeAnalysis, "%s: zero variance in input", name)
	}
	return mean, sd, nil
}

// stdNormal is the N(0,1) used for quantiles and tail probabilities.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// tTwoTailedP converts a t statistic and degrees of freedom into a
// two-tailed p-value.
func tTwoTailedP(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// tCritical returns the two-tailed critical value at the given
// confidence level (e.g. 0.95).
func tCritical(df, confidence float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return dist.Quantile(1 - (1-confidence)/2)
}

// averageRanks assigns ranks to the pooled values, averaging over ties,
// and returns the rank of each input position plus the tie-group sizes.
func averageRanks(values []float64) (ranks []float64, tieSizes []int) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2 // ranks are 1-based
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		tieSizes = append(tieSizes, j-i+1)
		i = j + 1
	}
	return ranks, tieSizes
}
