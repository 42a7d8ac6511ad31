package generate

import (
	"math"
	"math/rand/v2"

	"gomonte/internal/errors"
)

// drawNormal draws one value from N(mu, sd).
func drawNormal(rnd *rand.Rand, mu, sd float64) float64 {
	return mu + sd*rnd.NormFloat64()
}

// drawSkewNormal draws one value from a skew-normal distribution with
// location loc, scale, and shape alpha, using the representation
// Z = delta*|U| + sqrt(1-delta^2)*V for independent standard normals
// U, V with delta = alpha/sqrt(1+alpha^2). alpha = 0 reduces to N(loc,
// scale).
func drawSkewNormal(rnd *rand.Rand, loc, scale, alpha float64) float64 {
	if alpha == 0 {
		return drawNormal(rnd, loc, scale)
	}
	delta := alpha / math.Sqrt(1+alpha*alpha)
	u := rnd.NormFloat64()
	v := rnd.NormFloat64()
	z := delta*math.Abs(u) + math.Sqrt(1-delta*delta)*v
	return loc + scale*z
}

// drawBivariateNormal draws one (x, y) pair with means muX/muY, standard
// deviations sdX/sdY, and correlation rho, via the conditional form
// y = muY + rho*sdY*zx + sdY*sqrt(1-rho^2)*zy.
func drawBivariateNormal(rnd *rand.Rand, muX, sdX, muY, sdY, rho float64) (float64, float64) {
	zx := rnd.NormFloat64()
	zy := rnd.NormFloat64()
	x := muX + sdX*zx
	y := muY + sdY*(rho*zx+math.Sqrt(1-rho*rho)*zy)
	return x, y
}

// checkScale rejects non-positive scale parameters up front instead of
// producing silently degenerate data.
func checkScale(name string, sd float64) error {
	if sd <= 0 || math.IsNaN(sd) {
		return errors.Newf(errors.CodeGeneration, "parameter %q must be a positive scale, got %v", name, sd)
	}
	return nil
}

// checkCorrelation rejects correlations outside (-1, 1).
func checkCorrelation(name string, rho float64) error {
	if rho <= -1 || rho >= 1 || math.IsNaN(rho) {
		return errors.Newf(errors.CodeGeneration, "parameter %q must lie in (-1, 1), got %v", name, rho)
	}
	return nil
}
