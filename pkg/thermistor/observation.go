package thermistor

import (
	pkgerrors "github.com/pkg/errors"
)

// Observation is one calibration point.
type Observation struct {
	Resistance  float64 `json:"resistance" validate:"gt=0" binding:"gt=0"` // ohms
	Temperature float64 `json:"temperature"`                               // degrees Celsius
}

// Validate checks that the resistance is positive and the temperature is
// finite and above absolute zero.
func (o Observation) Validate() error {
	if err := checkResistance(o.Resistance); err != nil {
		return err
	}
	_, err := kelvin(o.Temperature)
	return err
}

// NewObservations pairs resistances and temperatures by index.
func NewObservations(resistances, temperatures []float64) ([]Observation, error) {
	if len(resistances) != len(temperatures) {
		return nil, pkgerrors.Wrapf(ErrInvalidInputCount, "got %d resistances and %d temperatures", len(resistances), len(temperatures))
	}
	obs := make([]Observation, len(resistances))
	for i := range resistances {
		obs[i] = Observation{Resistance: resistances[i], Temperature: temperatures[i]}
	}
	return obs, nil
}

func validateAll(obs []Observation) error {
	for i, o := range obs {
		if err := o.Validate(); err != nil {
			return pkgerrors.Wrapf(err, "observation %d", i+1)
		}
	}
	return nil
}

// Model converts in both directions between resistance (ohms) and temperature (°C).
type Model interface {
	Name() string
	Resistance(tempC float64) (float64, error)
	Temperature(resistance float64) (float64, error)
}
