package thermistor

import (
	"math"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

const (
	// SteinhartHartPoints is the number of observations a Steinhart-Hart fit takes.
	SteinhartHartPoints = 3

	newtonSeed          = 10000.0
	newtonMaxIterations = 60
	newtonTolerance     = 1e-9
	flatSlopeFactor     = 1e-6
	// MinResistance is the smallest resistance EvaluateR will ever report.
	MinResistance = 1e-9

	// Singular values below lstsqRcond*σmax are treated as zero in the
	// least-squares fallback. This is looser than eps·max(M,N): repeated rows
	// leave roundoff singular values close to eps·σmax, and those must be cut.
	lstsqRcond = 1e-12
)

// SteinhartHart holds the coefficients of 1/T = A + B·ln(R) + C·ln(R)³, all in 1/K.
type SteinhartHart struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
}

var _ Model = SteinhartHart{}

func (SteinhartHart) Name() string { return "steinhart-hart" }

// Validate reports whether all coefficients are finite.
func (sh SteinhartHart) Validate() error {
	if !isFinite(sh.A) || !isFinite(sh.B) || !isFinite(sh.C) {
		return pkgerrors.Wrapf(ErrSingularFit, "non-finite coefficients A=%v B=%v C=%v", sh.A, sh.B, sh.C)
	}
	return nil
}

// FitSteinhartHart solves for (A, B, C) from exactly three observations.
//
// The 3×3 system is solved exactly first. If that fails because the matrix is
// singular or ill-conditioned, the minimum-norm least-squares solution of the
// same system is used instead.
func FitSteinhartHart(obs []Observation) (SteinhartHart, error) {
	if len(obs) != SteinhartHartPoints {
		return SteinhartHart{}, pkgerrors.Wrapf(ErrInvalidInputCount, "steinhart-hart needs exactly %d observations, got %d", SteinhartHartPoints, len(obs))
	}
	if err := validateAll(obs); err != nil {
		return SteinhartHart{}, err
	}

	x := mat.NewDense(SteinhartHartPoints, 3, nil)
	y := mat.NewVecDense(SteinhartHartPoints, nil)
	for i, o := range obs {
		lnR := math.Log(o.Resistance)
		x.SetRow(i, []float64{1, lnR, lnR * lnR * lnR})
		y.SetVec(i, 1.0/CelsiusToKelvin(o.Temperature))
	}

	var c mat.VecDense
	if err := c.SolveVec(x, y); err != nil {
		logrus.WithError(err).Debug("exact steinhart-hart solve failed, falling back to least squares")
		if err := leastSquares(&c, x, y); err != nil {
			return SteinhartHart{}, err
		}
	}

	sh := SteinhartHart{A: c.AtVec(0), B: c.AtVec(1), C: c.AtVec(2)}
	if err := sh.Validate(); err != nil {
		return SteinhartHart{}, err
	}
	return sh, nil
}

func leastSquares(dst *mat.VecDense, x mat.Matrix, y mat.Vector) error {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return pkgerrors.Wrap(ErrSingularFit, "svd factorization failed")
	}
	rank := svd.Rank(lstsqRcond)
	if rank == 0 {
		return pkgerrors.Wrap(ErrSingularFit, "observation matrix has rank 0")
	}
	dst.Reset()
	svd.SolveVecTo(dst, y, rank)
	return nil
}

// Resistance returns R for a temperature in °C (EvaluateR).
//
// There is no closed form, so Newton's method is run on
// f(R) = A + B·ln(R) + C·ln(R)³ − 1/T. Convergence is not guaranteed for
// arbitrary coefficients; callers should sanity-check results against the
// calibration range. The result is never below MinResistance.
func (sh SteinhartHart) Resistance(tempC float64) (float64, error) {
	tk, err := kelvin(tempC)
	if err != nil {
		return 0, err
	}
	target := 1.0 / tk

	r := newtonSeed
	for i := 0; i < newtonMaxIterations; i++ {
		if r <= 0 {
			r = 1.0
		}
		lnR := math.Log(r)
		f := sh.A + sh.B*lnR + sh.C*lnR*lnR*lnR - target
		df := (sh.B + 3*sh.C*lnR*lnR) / r

		var step float64
		if df != 0 {
			step = f / df
		} else {
			step = f * flatSlopeFactor
		}

		next := r - step
		if math.Abs(next-r) < newtonTolerance {
			break
		}
		r = next
	}

	if math.IsNaN(r) || r < MinResistance {
		return MinResistance, nil
	}
	return r, nil
}

// Temperature returns the temperature in °C for a resistance in ohms (EvaluateT).
func (sh SteinhartHart) Temperature(resistance float64) (float64, error) {
	if err := checkResistance(resistance); err != nil {
		return 0, err
	}
	lnR := math.Log(resistance)
	invT := sh.A + sh.B*lnR + sh.C*lnR*lnR*lnR
	if invT <= 0 {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "steinhart-hart gives 1/T = %g at %g Ω", invT, resistance)
	}
	t := KelvinToCelsius(1.0 / invT)
	if !isFinite(t) {
		return 0, pkgerrors.Wrapf(ErrNonPhysicalResult, "steinhart-hart gives T = %v at %g Ω", t, resistance)
	}
	return t, nil
}
