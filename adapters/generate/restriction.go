package generate

import (
	"context"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("selected-two-group", func() ports.Generator { return SelectedTwoGroup{} })
	Register("selected-bivariate", func() ports.Generator { return SelectedBivariate{} })
}

// SelectedTwoGroup reproduces selection before a group comparison:
// applicants enter each group through a standard-normal screening score
// filtered to [lower, upper], and the outcome of a survivor is built
// from that screener plus independent noise,
//
//	score = mean + sd * (validity*z + sqrt(1-validity^2)*e)
//
// Selecting on the screener rather than on the outcome leaves the raw
// group difference intact while the within-group spread shrinks, so
// tightening the window inflates the standardized effect. Requesting
// more rows than survive the filter is a generation failure, never a
// silent shrink.
//
// Parameters:
//
//	n              per-group subsample size (required)
//	pop_n          per-group applicant pool (default 20 * n)
//	mean1, mean2   group locations (default 0)
//	sd             outcome scale (default 1)
//	validity       screener-outcome correlation in (0, 1] (default 1)
//	lower, upper   selection window on the screener (default unbounded)
type SelectedTwoGroup struct{}

func (SelectedTwoGroup) Name() string { return "selected-two-group" }

func (SelectedTwoGroup) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	n, err := row.Int("n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	popN, err := row.IntOr("pop_n", 20*n)
	if err != nil {
		return dataset.Dataset{}, err
	}
	sd, err := row.FloatOr("sd", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkScale("sd", sd); err != nil {
		return dataset.Dataset{}, err
	}
	validity, err := row.FloatOr("validity", 1)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if validity <= 0 || validity > 1 {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "validity must lie in (0, 1], got %v", validity)
	}
	lower, err := row.FloatOr("lower", math.Inf(-1))
	if err != nil {
		return dataset.Dataset{}, err
	}
	upper, err := row.FloatOr("upper", math.Inf(1))
	if err != nil {
		return dataset.Dataset{}, err
	}
	if lower >= upper {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "empty selection window [%v, %v]", lower, upper)
	}

	groups := []struct {
		label   string
		meanKey string
	}{
		{dataset.GroupControl, "mean1"},
		{dataset.GroupTreatment, "mean2"},
	}

	noiseScale := math.Sqrt(1 - validity*validity)
	ds := dataset.Dataset{Rows: make([]dataset.Observation, 0, 2*n)}
	for _, g := range groups {
		mean, err := row.FloatOr(g.meanKey, 0)
		if err != nil {
			return dataset.Dataset{}, err
		}
		survivors := make([]float64, 0, popN)
		for i := 0; i < popN; i++ {
			z := drawNormal(rnd, 0, 1)
			if z >= lower && z <= upper {
				survivors = append(survivors, z)
			}
		}
		if len(survivors) < n {
			return dataset.Dataset{}, errors.Newf(errors.CodeGeneration,
				"group %s: selection window [%v, %v] left %d of %d rows, need %d", g.label, lower, upper, len(survivors), popN, n)
		}
		for _, idx := range rnd.Perm(len(survivors))[:n] {
			score := mean + sd*(validity*survivors[idx]+noiseScale*drawNormal(rnd, 0, 1))
			ds.Rows = append(ds.Rows, dataset.Observation{
				Group:  g.label,
				Values: map[string]float64{dataset.FieldScore: score},
			})
		}
	}
	return ds, nil
}

// SelectedBivariate draws a bivariate-normal population with correlation
// rho and restricts it to the upper tail of x (e.g. admitting only
// applicants above the 75th percentile) before correlating x with y.
// The unrestricted population stays available to a paired analyzer
// through the select_q = 0 condition, which applies no restriction.
//
// Parameters:
//
//	pop_n     population draw size (required)
//	rho       population correlation (required)
//	select_q  keep x above this population quantile, 0 = keep all (default 0)
//	n         subsample size after restriction, 0 = keep all survivors (default 0)
type SelectedBivariate struct{}

func (SelectedBivariate) Name() string { return "selected-bivariate" }

func (SelectedBivariate) Generate(ctx context.Context, row grid.ConditionRow, rnd *rand.Rand) (dataset.Dataset, error) {
	popN, err := row.Int("pop_n")
	if err != nil {
		return dataset.Dataset{}, err
	}
	rho, err := row.Float("rho")
	if err != nil {
		return dataset.Dataset{}, err
	}
	if err := checkCorrelation("rho", rho); err != nil {
		return dataset.Dataset{}, err
	}
	selectQ, err := row.FloatOr("select_q", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if selectQ < 0 || selectQ >= 1 {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration, "select_q must lie in [0, 1), got %v", selectQ)
	}
	n, err := row.IntOr("n", 0)
	if err != nil {
		return dataset.Dataset{}, err
	}

	cutoff := math.Inf(-1)
	if selectQ > 0 {
		cutoff = distuv.Normal{Mu: 0, Sigma: 1}.Quantile(selectQ)
	}

	survivors := make([]dataset.Observation, 0, popN)
	for i := 0; i < popN; i++ {
		x, y := drawBivariateNormal(rnd, 0, 1, 0, 1, rho)
		if x <= cutoff {
			continue
		}
		survivors = append(survivors, dataset.Observation{
			Group:  dataset.GroupControl,
			Values: map[string]float64{dataset.FieldX: x, dataset.FieldY: y},
		})
	}
	if len(survivors) < 4 {
		return dataset.Dataset{}, errors.Newf(errors.CodeGeneration,
			"restriction above q=%v left %d of %d rows, too few to correlate", selectQ, len(survivors), popN)
	}
	if n > 0 {
		if len(survivors) < n {
			return dataset.Dataset{}, errors.Newf(errors.CodeGeneration,
				"restriction above q=%v left %d of %d rows, need %d", selectQ, len(survivors), popN, n)
		}
		picked := make([]dataset.Observation, 0, n)
		for _, idx := range rnd.Perm(len(survivors))[:n] {
			picked = append(picked, survivors[idx])
		}
		survivors = picked
	}
	return dataset.Dataset{Rows: survivors}, nil
}
