package config

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/ntccal/pkg/calibration"
)

// Apply copies every non-nil field of u into c. u is validated before
// anything is set, so an invalid u leaves c untouched. Curve and divider
// fields may be given on their own; the rest of the range or divider is kept.
func Apply(c Config, u *RawFileConfig) error {
	if c == nil || u == nil {
		return pkgerrors.New("config is nil")
	}
	if err := u.Validate(); err != nil {
		return err
	}

	if u.Observations != nil {
		if err := c.SetObservations(u.Observations); err != nil {
			return err
		}
	}

	if u.DefaultModel != nil {
		c.SetDefaultModel(calibration.Model(*u.DefaultModel))
	}

	if u.CurveMin != nil || u.CurveMax != nil || u.CurvePoints != nil {
		r := c.CurveRange()
		if u.CurveMin != nil {
			r.MinC = *u.CurveMin
		}
		if u.CurveMax != nil {
			r.MaxC = *u.CurveMax
		}
		if u.CurvePoints != nil {
			r.Points = *u.CurvePoints
		}
		c.SetCurveRange(r)
	}

	if u.SeriesResistance != nil || u.ADCResolution != nil {
		d := c.Divider()
		if u.SeriesResistance != nil {
			d.SeriesResistance = *u.SeriesResistance
		}
		if u.ADCResolution != nil {
			d.Resolution = *u.ADCResolution
		}
		if err := c.SetDivider(d); err != nil {
			return err
		}
	}

	if u.AllowNonRootAccess != nil {
		c.SetAllowNonRootAccess(*u.AllowNonRootAccess)
	}

	return nil
}
