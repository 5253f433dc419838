package thermistor

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

const (
	// ZeroCelsius is 0 °C in Kelvin.
	ZeroCelsius = 273.15
	// K25 is the 25 °C reference temperature of the Beta model, in Kelvin.
	K25 = ZeroCelsius + 25.0
)

func CelsiusToKelvin(c float64) float64 { return c + ZeroCelsius }
func KelvinToCelsius(k float64) float64 { return k - ZeroCelsius }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// kelvin converts a temperature and rejects values no thermistor can see.
func kelvin(tempC float64) (float64, error) {
	if !isFinite(tempC) {
		return 0, pkgerrors.Wrapf(ErrInvalidObservation, "temperature %v is not finite", tempC)
	}
	k := CelsiusToKelvin(tempC)
	if k <= 0 {
		return 0, pkgerrors.Wrapf(ErrInvalidObservation, "temperature %g °C is at or below absolute zero", tempC)
	}
	return k, nil
}

func checkResistance(r float64) error {
	if !isFinite(r) || r <= 0 {
		return pkgerrors.Wrapf(ErrInvalidObservation, "resistance must be > 0, got %v", r)
	}
	return nil
}
