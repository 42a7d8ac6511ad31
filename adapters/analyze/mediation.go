package analyze

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"gomonte/domain/dataset"
	"gomonte/domain/result"
	"gomonte/internal/errors"
	"gomonte/ports"
)

func init() {
	Register("mediation", func() ports.Analyzer { return Mediation{} })
}

// Mediation fits the simple mediation path model x -> m -> y by OLS:
// the a path from regressing m on x, the b and c' paths from regressing
// y on x and m together, and the c path from regressing y on x alone.
// The indirect effect a*b is tested with the Sobel z. Fed data from a
// collider structure, the same fit happily reports a spurious indirect
// effect, which is the classroom point.
type Mediation struct{}

func (Mediation) Name() string { return "mediation" }

func (Mediation) Analyze(ctx context.Context, ds dataset.Dataset) (result.Record, error) {
	xs := ds.Column(dataset.FieldX)
	ms := ds.Column(dataset.FieldM)
	ys := ds.Column(dataset.FieldY)
	n := len(xs)
	if len(ms) != n || len(ys) != n {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "mediation: ragged columns (%d x, %d m, %d y)", n, len(ms), len(ys))
	}
	if n < 10 {
		return result.Record{}, errors.Newf(errors.CodeAnalysis, "mediation: need at least 10 observations, got %d", n)
	}

	// a path: m ~ x
	coefA, seA, err := olsFit(ms, xs)
	if err != nil {
		return result.Record{}, errors.Wrap(err, "mediation: a path")
	}
	// b and c' paths: y ~ x + m
	coefB, seB, err := olsFit(ys, xs, ms)
	if err != nil {
		return result.Record{}, errors.Wrap(err, "mediation: b path")
	}
	// total effect: y ~ x
	coefC, _, err := olsFit(ys, xs)
	if err != nil {
		return result.Record{}, errors.Wrap(err, "mediation: total effect")
	}

	a, sa := coefA[1], seA[1]
	cPrime := coefB[1]
	b, sb := coefB[2], seB[2]
	cTotal := coefC[1]

	indirect := a * b
	sobelSE := math.Sqrt(b*b*sa*sa + a*a*sb*sb)
	if sobelSE == 0 || math.IsNaN(sobelSE) {
		return result.Record{}, errors.New(errors.CodeAnalysis, "mediation: degenerate Sobel standard error")
	}
	z := indirect / sobelSE
	p := 2 * stdNormal.CDF(-math.Abs(z))
	zcrit := stdNormal.Quantile(0.975)

	rec := result.New().
		Set(result.MetricEstimate, indirect).
		Set(result.MetricPValue, p).
		Set(result.MetricCILower, indirect-zcrit*sobelSE).
		Set(result.MetricCIUpper, indirect+zcrit*sobelSE).
		Set(result.MetricStat, z).
		Set(result.MetricN, float64(n)).
		Set("path_a", a).
		Set("path_b", b).
		Set("path_c_prime", cPrime).
		Set("path_c_total", cTotal)
	return rec, nil
}

// olsFit regresses y on an intercept plus the given predictor columns,
// returning coefficients and their standard errors (intercept first).
func olsFit(y []float64, predictors ...[]float64) (coef, se []float64, err error) {
	n := len(y)
	p := len(predictors) + 1
	if n <= p {
		return nil, nil, errors.Newf(errors.CodeAnalysis, "ols: %d observations cannot support %d coefficients", n, p)
	}

	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j, col := range predictors {
			design.Set(i, j+1, col[i])
		}
	}
	yVec := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(design)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, yVec); err != nil {
		return nil, nil, errors.Wrap(errors.WithCode(errors.CodeAnalysis, err), "ols: singular design matrix")
	}

	// Residual variance.
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(design, beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(n-p)

	var xtx, inv mat.Dense
	xtx.Mul(design.T(), design)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, errors.Wrap(errors.WithCode(errors.CodeAnalysis, err), "ols: singular normal equations")
	}

	coef = make([]float64, p)
	se = make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
		se[j] = math.Sqrt(sigma2 * inv.At(j, j))
	}
	return coef, se, nil
}
