package main

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/client"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

// backend is what the commands need. The daemon client and the in-process
// localBackend both provide it.
type backend interface {
	GetConfig() (*config.RawFileConfig, error)
	SetConfig(*config.RawFileConfig) (*config.RawFileConfig, error)
	GetObservations() ([]thermistor.Observation, error)
	SetObservations([]thermistor.Observation) error
	Calibrate() (calibration.Result, error)
	EnsureCalibrated() (calibration.Result, error)
	GetCalibration() (calibration.Result, error)
	ResetCalibration() error
	Evaluate(calibration.Model, calibration.Direction, float64) (calibration.Evaluation, error)
	GetCoefficients() (calibration.Document, error)
	GetCurve(*curve.Range) (curve.Table, error)
}

var (
	_ backend = &client.Client{}
	_ backend = &localBackend{}
)

// getBackend returns the daemon client, or a local backend when --local is set
// or nothing listens on the socket.
func getBackend() (backend, error) {
	if localMode {
		return newLocalBackend(configPath)
	}

	c := client.NewClient(unixSocketPath)
	if _, err := c.GetVersion(); err != nil {
		if errors.Is(err, client.ErrDaemonNotRunning) {
			logrus.WithField("socket", unixSocketPath).Debug("daemon not running, calibrating locally")
			return newLocalBackend(configPath)
		}
		return nil, err
	}
	return c, nil
}

// localBackend calibrates in-process from the config file. Its cache lives
// only as long as the process, so reads fit on demand.
type localBackend struct {
	conf config.Config
	svc  *calibration.Service
}

func newLocalBackend(path string) (*localBackend, error) {
	conf, err := config.NewFile(path)
	if err != nil {
		return nil, err
	}
	return &localBackend{conf: conf, svc: calibration.NewService()}, nil
}

func (b *localBackend) GetConfig() (*config.RawFileConfig, error) {
	return config.NewRawFileConfigFromConfig(b.conf)
}

func (b *localBackend) GetObservations() ([]thermistor.Observation, error) {
	return b.conf.Observations(), nil
}

func (b *localBackend) SetConfig(u *config.RawFileConfig) (*config.RawFileConfig, error) {
	prev, err := config.NewRawFileConfigFromConfig(b.conf)
	if err != nil {
		return nil, err
	}
	if err := config.Apply(b.conf, u); err != nil {
		return nil, err
	}
	if err := b.conf.Save(); err != nil {
		if rerr := config.Apply(b.conf, prev); rerr != nil {
			logrus.WithError(rerr).Error("failed to restore config")
		}
		return nil, pkgerrors.Wrap(err, "failed to save config")
	}
	if u.Observations != nil {
		b.svc.Invalidate()
	}
	return b.GetConfig()
}

func (b *localBackend) SetObservations(obs []thermistor.Observation) error {
	_, err := b.SetConfig(&config.RawFileConfig{Observations: obs})
	return err
}

func (b *localBackend) Calibrate() (calibration.Result, error) {
	return b.svc.Calibrate(b.conf.Observations()), nil
}

func (b *localBackend) EnsureCalibrated() (calibration.Result, error) {
	res, _ := b.svc.EnsureCalibrated(b.conf.Observations())
	return res, nil
}

func (b *localBackend) GetCalibration() (calibration.Result, error) {
	return b.EnsureCalibrated()
}

func (b *localBackend) ResetCalibration() error {
	b.svc.Invalidate()
	return nil
}

func (b *localBackend) Evaluate(m calibration.Model, d calibration.Direction, value float64) (calibration.Evaluation, error) {
	if m == "" {
		m = b.conf.DefaultModel()
	}
	res, _ := b.EnsureCalibrated()
	out, err := b.svc.Evaluate(m, d, value)
	if err != nil {
		return calibration.Evaluation{}, err
	}
	return calibration.Evaluation{
		CalibrationID: res.ID,
		Model:         m,
		Direction:     d,
		Input:         value,
		Value:         out,
		Unit:          d.Unit(),
	}, nil
}

func (b *localBackend) GetCoefficients() (calibration.Document, error) {
	_, _ = b.EnsureCalibrated()
	return b.svc.Export()
}

func (b *localBackend) GetCurve(r *curve.Range) (curve.Table, error) {
	rng := b.conf.CurveRange()
	if r != nil {
		rng = *r
	}

	res, _ := b.EnsureCalibrated()
	models := res.Models()
	if len(models) == 0 {
		return curve.Table{}, pkgerrors.Wrap(calibration.ErrNotCalibrated, "no model is calibrated")
	}
	return curve.Compare(context.Background(), models, rng)
}
