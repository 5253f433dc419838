package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
	"github.com/charlie0129/ntccal/pkg/utils/ptr"
)

var (
	defaultObservations = []thermistor.Observation{
		{Resistance: 25000, Temperature: 5},
		{Resistance: 10000, Temperature: 25},
		{Resistance: 4000, Temperature: 45},
	}

	defaultFileConfig = &RawFileConfig{
		Observations:       defaultObservations,
		DefaultModel:       ptr.To(string(calibration.ModelSteinhartHart)),
		CurveMin:           ptr.To(curve.DefaultRange.MinC),
		CurveMax:           ptr.To(curve.DefaultRange.MaxC),
		CurvePoints:        ptr.To(curve.DefaultRange.Points),
		SeriesResistance:   ptr.To(thermistor.DefaultDivider.SeriesResistance),
		ADCResolution:      ptr.To(thermistor.DefaultDivider.Resolution),
		AllowNonRootAccess: ptr.To(false),
	}

	validate = validator.New(validator.WithRequiredStructEnabled())
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

// RawFileConfig is the on-disk layout. Nil fields fall back to defaults.
type RawFileConfig struct {
	Observations       []thermistor.Observation `json:"observations,omitempty" validate:"omitempty,min=1,dive"`
	DefaultModel       *string                  `json:"defaultModel,omitempty" validate:"omitempty,oneof=steinhart-hart beta"`
	CurveMin           *float64                 `json:"curveMin,omitempty" validate:"omitempty,gt=-273.15"`
	CurveMax           *float64                 `json:"curveMax,omitempty" validate:"omitempty,gt=-273.15"`
	CurvePoints        *int                     `json:"curvePoints,omitempty" validate:"omitempty,min=2,max=100000"`
	SeriesResistance   *float64                 `json:"seriesResistance,omitempty" validate:"omitempty,gt=0"`
	ADCResolution      *float64                 `json:"adcResolution,omitempty" validate:"omitempty,gt=0"`
	AllowNonRootAccess *bool                    `json:"allowNonRootAccess,omitempty"`
}

// Validate checks every observation, then the field constraints.
func (c *RawFileConfig) Validate() error {
	for i, o := range c.Observations {
		if err := o.Validate(); err != nil {
			return pkgerrors.Wrapf(err, "invalid config: observation %d", i+1)
		}
	}
	if err := validate.Struct(c); err != nil {
		return pkgerrors.Wrap(err, "invalid config")
	}
	return nil
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	r := c.CurveRange()
	d := c.Divider()

	return &RawFileConfig{
		Observations:       c.Observations(),
		DefaultModel:       ptr.To(string(c.DefaultModel())),
		CurveMin:           ptr.To(r.MinC),
		CurveMax:           ptr.To(r.MaxC),
		CurvePoints:        ptr.To(r.Points),
		SeriesResistance:   ptr.To(d.SeriesResistance),
		ADCResolution:      ptr.To(d.Resolution),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
	}, nil
}

func (f *File) Observations() []thermistor.Observation {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	obs := f.c.Observations
	if len(obs) == 0 {
		obs = defaultObservations
	}

	return append([]thermistor.Observation(nil), obs...)
}

func (f *File) DefaultModel() calibration.Model {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return calibration.Model(ptr.Deref(f.c.DefaultModel, *defaultFileConfig.DefaultModel))
}

func (f *File) CurveRange() curve.Range {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return curve.Range{
		MinC:   ptr.Deref(f.c.CurveMin, *defaultFileConfig.CurveMin),
		MaxC:   ptr.Deref(f.c.CurveMax, *defaultFileConfig.CurveMax),
		Points: ptr.Deref(f.c.CurvePoints, *defaultFileConfig.CurvePoints),
	}
}

func (f *File) Divider() thermistor.Divider {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return thermistor.Divider{
		SeriesResistance: ptr.Deref(f.c.SeriesResistance, *defaultFileConfig.SeriesResistance),
		Resolution:       ptr.Deref(f.c.ADCResolution, *defaultFileConfig.ADCResolution),
	}
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.AllowNonRootAccess, *defaultFileConfig.AllowNonRootAccess)
}

// SetObservations replaces the calibration observations after validating them.
func (f *File) SetObservations(obs []thermistor.Observation) error {
	if f.c == nil {
		panic("config is nil")
	}
	if len(obs) == 0 {
		return pkgerrors.Wrap(thermistor.ErrInvalidInputCount, "no observations given")
	}
	for i, o := range obs {
		if err := o.Validate(); err != nil {
			return pkgerrors.Wrapf(err, "observation %d", i+1)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Observations = append([]thermistor.Observation(nil), obs...)

	return nil
}

func (f *File) SetDefaultModel(m calibration.Model) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DefaultModel = ptr.To(string(m))
}

func (f *File) SetCurveRange(r curve.Range) {
	if f.c == nil {
		panic("config is nil")
	}

	r = r.Normalize()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.CurveMin = &r.MinC
	f.c.CurveMax = &r.MaxC
	f.c.CurvePoints = &r.Points
}

func (f *File) SetDivider(d thermistor.Divider) error {
	if f.c == nil {
		panic("config is nil")
	}
	if d.SeriesResistance <= 0 || d.Resolution <= 0 {
		return pkgerrors.Wrapf(thermistor.ErrInvalidObservation, "divider values must be positive, got series=%v resolution=%v", d.SeriesResistance, d.Resolution)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.SeriesResistance = &d.SeriesResistance
	f.c.ADCResolution = &d.Resolution

	return nil
}

func (f *File) SetAllowNonRootAccess(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.AllowNonRootAccess = &b
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing file is an empty config, never a nil one.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// json.Decoder cannot tell an empty file from a truncated one.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	if err := conf.Validate(); err != nil {
		return pkgerrors.Wrapf(err, "config file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	r := f.CurveRange()
	d := f.Divider()

	return logrus.Fields{
		"observations":       len(f.Observations()),
		"defaultModel":       f.DefaultModel(),
		"curveMin":           r.MinC,
		"curveMax":           r.MaxC,
		"curvePoints":        r.Points,
		"seriesResistance":   d.SeriesResistance,
		"adcResolution":      d.Resolution,
		"allowNonRootAccess": f.AllowNonRootAccess(),
	}
}
