package daemon

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/events"
	"github.com/charlie0129/ntccal/pkg/numparse"
	"github.com/charlie0129/ntccal/pkg/thermistor"
	"github.com/charlie0129/ntccal/pkg/version"
)

func statusForCode(code string) int {
	switch code {
	case calibration.CodeInvalidInputCount, calibration.CodeInvalidObservation, calibration.CodeBadRequest:
		return http.StatusBadRequest
	case calibration.CodeNotCalibrated:
		return http.StatusConflict
	case calibration.CodeNonPhysicalResult, calibration.CodeSingularFit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithCode(c *gin.Context, code string, err error) {
	status := statusForCode(code)
	c.IndentedJSON(status, calibration.ErrorBody{Error: err.Error(), Code: code})
	_ = c.AbortWithError(status, err)
}

// abortWithError answers with the status that matches the kind of err.
func abortWithError(c *gin.Context, err error) {
	abortWithCode(c, calibration.ErrorCode(err), err)
}

// badRequest answers 400, keeping the error kind when err has one.
func badRequest(c *gin.Context, err error) {
	code := calibration.ErrorCode(err)
	if statusForCode(code) != http.StatusBadRequest {
		code = calibration.CodeBadRequest
	}
	abortWithCode(c, code, err)
}

func publishUpdated(r calibration.Result) {
	ev := events.CalibrationUpdatedEvent{
		ID:              r.ID,
		Observations:    len(r.Observations),
		SteinhartHartOK: r.SteinhartHart != nil,
		BetaOK:          r.Beta != nil,
		Ts:              time.Now().Unix(),
	}
	if r.SteinhartHartErr != nil {
		ev.SteinhartHartErr = r.SteinhartHartErr.Error()
	}
	if r.BetaErr != nil {
		ev.BetaErr = r.BetaErr.Error()
	}
	sseHub.Publish(events.CalibrationUpdated, ev)
}

func invalidate(reason string) {
	svc.Invalidate()
	sseHub.Publish(events.CalibrationInvalidated, events.CalibrationInvalidatedEvent{
		Reason: reason,
		Ts:     time.Now().Unix(),
	})
}

// ensure returns the cached calibration, fitting the configured observations
// first if needed.
func ensure() calibration.Result {
	res, recomputed := svc.EnsureCalibrated(conf.Observations())
	if recomputed {
		publishUpdated(res)
	}
	return res
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getObservations(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, conf.Observations())
}

func setObservations(c *gin.Context) {
	var obs []thermistor.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		var sve binding.SliceValidationError
		var ve validator.ValidationErrors
		if errors.As(err, &sve) || errors.As(err, &ve) {
			err = pkgerrors.Wrap(thermistor.ErrInvalidObservation, err.Error())
		}
		badRequest(c, err)
		return
	}

	prev := conf.Observations()
	if err := conf.SetObservations(obs); err != nil {
		badRequest(c, err)
		return
	}
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		// The cached calibration still matches prev.
		if rerr := conf.SetObservations(prev); rerr != nil {
			logrus.WithError(rerr).Error("failed to restore observations")
			invalidate("observations restore failed")
		}
		abortWithError(c, err)
		return
	}

	observationsChanged(len(obs))
	c.IndentedJSON(http.StatusOK, conf.Observations())
}

func observationsChanged(count int) {
	logrus.WithField("count", count).Info("observations updated")
	sseHub.Publish(events.ObservationsChanged, events.ObservationsChangedEvent{
		Count: count,
		Ts:    time.Now().Unix(),
	})
	invalidate("observations changed")
}

func setConfig(c *gin.Context) {
	var u config.RawFileConfig
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err)
		return
	}

	prev, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := config.Apply(conf, &u); err != nil {
		badRequest(c, err)
		return
	}
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		if rerr := config.Apply(conf, prev); rerr != nil {
			logrus.WithError(rerr).Error("failed to restore config")
			invalidate("config restore failed")
		}
		abortWithError(c, err)
		return
	}

	logrus.WithFields(conf.LogrusFields()).Info("config updated")
	if u.Observations != nil {
		observationsChanged(len(u.Observations))
	}

	getConfig(c)
}

func postCalibration(c *gin.Context) {
	res := svc.Calibrate(conf.Observations())
	publishUpdated(res)
	c.IndentedJSON(http.StatusCreated, res.Status())
}

func ensureCalibration(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, ensure().Status())
}

func getCalibration(c *gin.Context) {
	res, ok := svc.Current()
	if !ok {
		abortWithError(c, calibration.ErrNotCalibrated)
		return
	}
	c.IndentedJSON(http.StatusOK, res.Status())
}

func deleteCalibration(c *gin.Context) {
	invalidate("reset")
	c.IndentedJSON(http.StatusOK, "calibration reset")
}

func getEvaluate(c *gin.Context) {
	m := conf.DefaultModel()
	if s := c.Query("model"); s != "" {
		var err error
		if m, err = calibration.ParseModel(s); err != nil {
			badRequest(c, err)
			return
		}
	}

	d, err := calibration.ParseDirection(c.Query("direction"))
	if err != nil {
		badRequest(c, err)
		return
	}

	v, err := numparse.ParseFloat(c.Query("value"))
	if err != nil {
		badRequest(c, pkgerrors.Wrap(err, "value"))
		return
	}

	res := ensure()
	out, err := res.Evaluate(m, d, v)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, calibration.Evaluation{
		CalibrationID: res.ID,
		Model:         m,
		Direction:     d,
		Input:         v,
		Value:         out,
		Unit:          d.Unit(),
	})
}

func getCoefficients(c *gin.Context) {
	doc, err := ensure().Document()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, doc)
}

func parseRange(c *gin.Context) (curve.Range, error) {
	r := conf.CurveRange()
	if s := c.Query("min"); s != "" {
		v, err := numparse.ParseFloat(s)
		if err != nil {
			return r, pkgerrors.Wrap(err, "min")
		}
		r.MinC = v
	}
	if s := c.Query("max"); s != "" {
		v, err := numparse.ParseFloat(s)
		if err != nil {
			return r, pkgerrors.Wrap(err, "max")
		}
		r.MaxC = v
	}
	if s := c.Query("points"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return r, pkgerrors.Wrapf(numparse.ErrSyntax, "points %q", s)
		}
		r.Points = n
	}
	return r.Normalize(), nil
}

func getCurve(c *gin.Context) {
	r, err := parseRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	models := ensure().Models()
	if len(models) == 0 {
		abortWithError(c, pkgerrors.Wrap(calibration.ErrNotCalibrated, "no model is calibrated"))
		return
	}

	t, err := curve.Compare(c.Request.Context(), models, r)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, t)
}
