package thermistor

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// BetaMinPoints is the smallest number of observations a Beta fit takes.
const BetaMinPoints = 2

// Beta holds the parameters of R = R25·exp(β·(1/T − 1/K25)).
type Beta struct {
	Beta float64 `json:"beta"` // K
	R25  float64 `json:"R25"`  // ohms
}

var _ Model = Beta{}

func (Beta) Name() string { return "beta" }

// FitBeta computes β from the first two observations and R25 as the mean of
// the R25 implied by every observation.
//
// β deliberately ignores everything after the first two points, following the
// usual two-point datasheet convention. Reordering the observations changes
// the fit.
func FitBeta(obs []Observation) (Beta, error) {
	if len(obs) < BetaMinPoints {
		return Beta{}, pkgerrors.Wrapf(ErrInvalidInputCount, "beta needs at least %d observations, got %d", BetaMinPoints, len(obs))
	}
	if err := validateAll(obs); err != nil {
		return Beta{}, err
	}

	t1 := CelsiusToKelvin(obs[0].Temperature)
	t2 := CelsiusToKelvin(obs[1].Temperature)
	denom := 1.0/t1 - 1.0/t2
	if denom == 0 {
		return Beta{}, pkgerrors.Wrapf(ErrSingularFit, "first two observations share temperature %g °C", obs[0].Temperature)
	}
	beta := math.Log(obs[0].Resistance/obs[1].Resistance) / denom

	sum := 0.0
	for _, o := range obs {
		tk := CelsiusToKelvin(o.Temperature)
		sum += o.Resistance * math.Exp(-beta*(1.0/tk-1.0/K25))
	}

	b := Beta{Beta: beta, R25: sum / float64(len(obs))}
	if !isFinite(b.Beta) || !isFinite(b.R25) {
		return Beta{}, pkgerrors.Wrapf(ErrSingularFit, "non-finite beta parameters beta=%v R25=%v", b.Beta, b.R25)
	}
	return b, nil
}

// Resistance returns R for a temperature in °C (EvaluateR).
func (b Beta) Resistance(tempC float64) (float64, error) {
	tk, err := kelvin(tempC)
	if err != nil {
		return 0, err
	}
	r := b.R25 * math.Exp(b.Beta*(1.0/tk-1.0/K25))
	if !isFinite(r) {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "beta model gives R = %v at %g °C", r, tempC)
	}
	return r, nil
}

// Temperature returns the temperature in °C for a resistance in ohms (EvaluateT).
func (b Beta) Temperature(resistance float64) (float64, error) {
	if err := checkResistance(resistance); err != nil {
		return 0, err
	}
	if b.Beta == 0 || !isFinite(b.Beta) || !isFinite(b.R25) {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "beta model with beta=%v R25=%v cannot be inverted", b.Beta, b.R25)
	}
	invT := 1.0/K25 + (1.0/b.Beta)*math.Log(resistance/b.R25)
	// NaN fails both comparisons, so test for the good case.
	if !(invT > 0) {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "beta model gives 1/T = %g at %g Ω", invT, resistance)
	}
	t := KelvinToCelsius(1.0 / invT)
	if !isFinite(t) {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "beta model gives T = %v at %g Ω", t, resistance)
	}
	return t, nil
}
