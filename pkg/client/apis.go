package client

import (
	"encoding/json"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(translate(err), "failed to get version")
	}
	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(translate(err), "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

// SetConfig applies the non-nil fields of u and returns the resulting config.
func (c *Client) SetConfig(u *config.RawFileConfig) (*config.RawFileConfig, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	ret, err := c.Put("/config", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(translate(err), "failed to set config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func (c *Client) GetObservations() ([]thermistor.Observation, error) {
	ret, err := c.Get("/observations")
	if err != nil {
		return nil, pkgerrors.Wrapf(translate(err), "failed to get observations")
	}

	var obs []thermistor.Observation
	if err := json.Unmarshal([]byte(ret), &obs); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal observations")
	}
	return obs, nil
}

func (c *Client) SetObservations(obs []thermistor.Observation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	if _, err := c.Put("/observations", string(payload)); err != nil {
		return pkgerrors.Wrapf(translate(err), "failed to set observations")
	}
	return nil
}

func parseStatus(ret string) (calibration.Result, error) {
	var st calibration.Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return calibration.Result{}, pkgerrors.Wrapf(err, "failed to unmarshal calibration status")
	}
	return st.Result(), nil
}

// Calibrate refits both models from the daemon's observations.
func (c *Client) Calibrate() (calibration.Result, error) {
	ret, err := c.Post("/calibration", "")
	if err != nil {
		return calibration.Result{}, pkgerrors.Wrapf(translate(err), "failed to calibrate")
	}
	return parseStatus(ret)
}

// EnsureCalibrated returns the daemon's calibration, fitting first if needed.
func (c *Client) EnsureCalibrated() (calibration.Result, error) {
	ret, err := c.Post("/calibration/ensure", "")
	if err != nil {
		return calibration.Result{}, pkgerrors.Wrapf(translate(err), "failed to ensure calibration")
	}
	return parseStatus(ret)
}

// GetCalibration returns the current calibration, or an error matching
// calibration.ErrNotCalibrated.
func (c *Client) GetCalibration() (calibration.Result, error) {
	ret, err := c.Get("/calibration")
	if err != nil {
		return calibration.Result{}, pkgerrors.Wrapf(translate(err), "failed to get calibration")
	}
	return parseStatus(ret)
}

func (c *Client) ResetCalibration() error {
	if _, err := c.Delete("/calibration"); err != nil {
		return pkgerrors.Wrapf(translate(err), "failed to reset calibration")
	}
	return nil
}

// Evaluate converts value with model m in direction d. An empty m uses the
// daemon's default model.
func (c *Client) Evaluate(m calibration.Model, d calibration.Direction, value float64) (calibration.Evaluation, error) {
	q := url.Values{}
	if m != "" {
		q.Set("model", string(m))
	}
	q.Set("direction", string(d))
	q.Set("value", strconv.FormatFloat(value, 'g', -1, 64))

	ret, err := c.Get("/evaluate?" + q.Encode())
	if err != nil {
		return calibration.Evaluation{}, pkgerrors.Wrapf(translate(err), "failed to evaluate %s %s %g", m, d, value)
	}

	var ev calibration.Evaluation
	if err := json.Unmarshal([]byte(ret), &ev); err != nil {
		return calibration.Evaluation{}, pkgerrors.Wrapf(err, "failed to unmarshal evaluation")
	}
	return ev, nil
}

func (c *Client) GetCoefficients() (calibration.Document, error) {
	ret, err := c.Get("/coefficients")
	if err != nil {
		return calibration.Document{}, pkgerrors.Wrapf(translate(err), "failed to get coefficients")
	}

	var doc calibration.Document
	if err := json.Unmarshal([]byte(ret), &doc); err != nil {
		return calibration.Document{}, pkgerrors.Wrapf(err, "failed to unmarshal coefficients")
	}
	return doc, nil
}

// GetCurve samples both models over r, or over the daemon's configured range
// when r is nil.
func (c *Client) GetCurve(r *curve.Range) (curve.Table, error) {
	path := "/curve"
	if r != nil {
		q := url.Values{}
		q.Set("min", strconv.FormatFloat(r.MinC, 'g', -1, 64))
		q.Set("max", strconv.FormatFloat(r.MaxC, 'g', -1, 64))
		q.Set("points", strconv.Itoa(r.Points))
		path += "?" + q.Encode()
	}

	ret, err := c.Get(path)
	if err != nil {
		return curve.Table{}, pkgerrors.Wrapf(translate(err), "failed to get curve")
	}

	var t curve.Table
	if err := json.Unmarshal([]byte(ret), &t); err != nil {
		return curve.Table{}, pkgerrors.Wrapf(err, "failed to unmarshal curve")
	}
	return t, nil
}
