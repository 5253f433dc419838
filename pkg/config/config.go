package config

import (
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

type Config interface {
	Observations() []thermistor.Observation
	DefaultModel() calibration.Model
	CurveRange() curve.Range
	Divider() thermistor.Divider
	AllowNonRootAccess() bool

	SetObservations([]thermistor.Observation) error
	SetDefaultModel(calibration.Model)
	SetCurveRange(curve.Range)
	SetDivider(thermistor.Divider) error
	SetAllowNonRootAccess(bool)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
