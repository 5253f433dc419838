package calibration

import (
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/ntccal/pkg/thermistor"
)

// Service holds the most recent fit of both models for one observation set.
//
// A Service never compares its cache with the observations it is given:
// whoever changes the observations must call Invalidate.
type Service struct {
	mu     sync.Mutex
	result *Result
	now    func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// Calibrate fits both models from scratch and replaces the cached result.
// A failure in one model does not stop the other from being fit.
func (s *Service) Calibrate(obs []thermistor.Observation) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calibrateLocked(obs)
}

func (s *Service) calibrateLocked(obs []thermistor.Observation) Result {
	r := Result{
		ID:           uuid.NewString(),
		CalibratedAt: s.now(),
		Observations: append([]thermistor.Observation(nil), obs...),
	}

	if sh, err := thermistor.FitSteinhartHart(obs); err != nil {
		r.SteinhartHartErr = err
	} else {
		r.SteinhartHart = &sh
	}

	if b, err := thermistor.FitBeta(obs); err != nil {
		r.BetaErr = err
	} else {
		r.Beta = &b
	}

	entry := logrus.WithFields(logrus.Fields{
		"id":           r.ID,
		"observations": len(obs),
	})
	if r.SteinhartHartErr != nil {
		entry = entry.WithField("steinhartHartError", r.SteinhartHartErr.Error())
	}
	if r.BetaErr != nil {
		entry = entry.WithField("betaError", r.BetaErr.Error())
	}
	entry.Debug("calibrated")

	s.result = &r
	return r
}

// EnsureCalibrated returns the cached result, recomputing it from obs only
// when no calibration has fully succeeded yet. A recompute that reproduces the
// cached partial result keeps the cached one, ID included. The bool reports
// whether a new result replaced the cache.
func (s *Service) EnsureCalibrated(obs []thermistor.Observation) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil && s.result.OK() {
		return *s.result, false
	}

	prev := s.result
	r := s.calibrateLocked(obs)
	if prev != nil && prev.sameFit(r) {
		s.result = prev
		return *prev, false
	}
	return r, true
}

// Invalidate drops the cached result.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
}

// Current returns the cached result, if any.
func (s *Service) Current() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Evaluate converts value with the cached coefficients of m in direction d.
func (s *Service) Evaluate(m Model, d Direction, value float64) (float64, error) {
	r, ok := s.Current()
	if !ok {
		return 0, pkgerrors.Wrapf(ErrNotCalibrated, "no %s coefficients", m)
	}
	return r.Evaluate(m, d, value)
}

// Export returns the cached coefficients in the export layout.
func (s *Service) Export() (Document, error) {
	r, ok := s.Current()
	if !ok {
		return Document{}, pkgerrors.Wrap(ErrNotCalibrated, "both models must be calibrated to export")
	}
	return r.Document()
}
