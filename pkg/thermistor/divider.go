package thermistor

import (
	pkgerrors "github.com/pkg/errors"
)

// Divider describes the circuit Vcc -> NTC -> ADC node -> series resistor -> GND.
type Divider struct {
	SeriesResistance float64 `json:"seriesResistance"` // ohms
	Resolution       float64 `json:"resolution"`       // full-scale ADC count, e.g. 1023
}

// DefaultDivider is a 10 kΩ series resistor read by a 10-bit ADC.
var DefaultDivider = Divider{SeriesResistance: 10000, Resolution: 1023}

func (d Divider) validate() error {
	if !isFinite(d.SeriesResistance) || d.SeriesResistance <= 0 {
		return pkgerrors.Wrapf(ErrInvalidObservation, "series resistance must be > 0, got %v", d.SeriesResistance)
	}
	if !isFinite(d.Resolution) || d.Resolution <= 0 {
		return pkgerrors.Wrapf(ErrInvalidObservation, "adc resolution must be > 0, got %v", d.Resolution)
	}
	return nil
}

// Resistance converts an ADC reading to the NTC resistance.
func (d Divider) Resistance(reading float64) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	if !isFinite(reading) || reading <= 0 || reading > d.Resolution {
		return 0, pkgerrors.Wrapf(ErrInvalidObservation, "adc reading must be in (0, %g], got %v", d.Resolution, reading)
	}
	r := d.SeriesResistance/reading*d.Resolution - d.SeriesResistance
	if r <= 0 {
		// Full-scale reading: the NTC is shorted.
		return 0, pkgerrors.Wrapf(ErrInvalidObservation, "adc reading %g implies a shorted thermistor", reading)
	}
	return r, nil
}

// Reading converts an NTC resistance to the ADC reading the divider would produce.
func (d Divider) Reading(resistance float64) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}
	if err := checkResistance(resistance); err != nil {
		return 0, err
	}
	return d.Resolution * d.SeriesResistance / (resistance + d.SeriesResistance), nil
}
