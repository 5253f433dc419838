package calibration

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/ntccal/pkg/thermistor"
)

// ErrNotCalibrated is returned when a model is used before it has been fit.
var ErrNotCalibrated = errors.New("not calibrated")

// Model selects a calibration model.
type Model string

const (
	ModelSteinhartHart Model = "steinhart-hart"
	ModelBeta          Model = "beta"
)

// ParseModel accepts the canonical names and the short aliases "sh" and "b".
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "steinhart-hart", "steinhart", "sh", "s-h":
		return ModelSteinhartHart, nil
	case "beta", "b":
		return ModelBeta, nil
	default:
		return "", fmt.Errorf("unknown model %q, expected steinhart-hart or beta", s)
	}
}

// Direction selects which way a model is evaluated.
type Direction string

const (
	// ResistanceToTemperature takes ohms and returns °C.
	ResistanceToTemperature Direction = "r2t"
	// TemperatureToResistance takes °C and returns ohms.
	TemperatureToResistance Direction = "t2r"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r2t", "r-t", "resistance":
		return ResistanceToTemperature, nil
	case "t2r", "t-r", "temperature":
		return TemperatureToResistance, nil
	default:
		return "", fmt.Errorf("unknown direction %q, expected r2t or t2r", s)
	}
}

// Unit is the unit of the value a Direction produces.
func (d Direction) Unit() string {
	if d == TemperatureToResistance {
		return "Ω"
	}
	return "°C"
}

// Result is the outcome of one Calibrate call. Each model holds either
// coefficients or an error, never both.
type Result struct {
	ID               string
	CalibratedAt     time.Time
	Observations     []thermistor.Observation
	SteinhartHart    *thermistor.SteinhartHart
	SteinhartHartErr error
	Beta             *thermistor.Beta
	BetaErr          error
}

// OK reports whether both models were fit.
func (r Result) OK() bool {
	return r.SteinhartHart != nil && r.Beta != nil
}

// Model returns the coefficients of m.
func (r Result) Model(m Model) (thermistor.Model, error) {
	switch m {
	case ModelSteinhartHart:
		if r.SteinhartHart == nil {
			return nil, pkgerrors.Wrapf(ErrNotCalibrated, "no %s coefficients", m)
		}
		return *r.SteinhartHart, nil
	case ModelBeta:
		if r.Beta == nil {
			return nil, pkgerrors.Wrapf(ErrNotCalibrated, "no %s coefficients", m)
		}
		return *r.Beta, nil
	default:
		return nil, pkgerrors.Errorf("unknown model %q", m)
	}
}

// Models returns the models that were fit, Steinhart-Hart first.
func (r Result) Models() []thermistor.Model {
	var models []thermistor.Model
	for _, m := range []Model{ModelSteinhartHart, ModelBeta} {
		if tm, err := r.Model(m); err == nil {
			models = append(models, tm)
		}
	}
	return models
}

// Evaluate converts value with the coefficients of m in direction d.
func (r Result) Evaluate(m Model, d Direction, value float64) (float64, error) {
	model, err := r.Model(m)
	if err != nil {
		return 0, err
	}

	switch d {
	case ResistanceToTemperature:
		return model.Temperature(value)
	case TemperatureToResistance:
		return model.Resistance(value)
	default:
		return 0, pkgerrors.Errorf("unknown direction %q", d)
	}
}

// Document returns the coefficients in the export layout. Both models must
// have been fit.
func (r Result) Document() (Document, error) {
	if !r.OK() {
		return Document{}, pkgerrors.Wrap(ErrNotCalibrated, "both models must be calibrated to export")
	}
	return Document{
		SteinhartHart: *r.SteinhartHart,
		BetaModel:     *r.Beta,
		Notes:         ExportNotes,
	}, nil
}

// sameFit reports whether r and o were fit from the same observations with
// the same outcome, ignoring identity and time.
func (r Result) sameFit(o Result) bool {
	if !slices.Equal(r.Observations, o.Observations) {
		return false
	}
	if (r.SteinhartHart == nil) != (o.SteinhartHart == nil) || (r.Beta == nil) != (o.Beta == nil) {
		return false
	}
	if r.SteinhartHart != nil && *r.SteinhartHart != *o.SteinhartHart {
		return false
	}
	if r.Beta != nil && *r.Beta != *o.Beta {
		return false
	}
	return errorText(r.SteinhartHartErr) == errorText(o.SteinhartHartErr) &&
		errorText(r.BetaErr) == errorText(o.BetaErr)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ModelError is a serializable form of a fit error.
type ModelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status is a synthesized view model of a Result, exposed via HTTP and
// printed by the CLI.
type Status struct {
	ID                 string                    `json:"id"`
	CalibratedAt       time.Time                 `json:"calibratedAt"`
	Observations       []thermistor.Observation  `json:"observations"`
	SteinhartHart      *thermistor.SteinhartHart `json:"steinhartHart,omitempty"`
	SteinhartHartError *ModelError               `json:"steinhartHartError,omitempty"`
	Beta               *thermistor.Beta          `json:"beta,omitempty"`
	BetaError          *ModelError               `json:"betaError,omitempty"`
}

func newModelError(err error) *ModelError {
	if err == nil {
		return nil
	}
	return &ModelError{Code: ErrorCode(err), Message: err.Error()}
}

// Status converts the result into its view model.
func (r Result) Status() Status {
	return Status{
		ID:                 r.ID,
		CalibratedAt:       r.CalibratedAt,
		Observations:       r.Observations,
		SteinhartHart:      r.SteinhartHart,
		SteinhartHartError: newModelError(r.SteinhartHartErr),
		Beta:               r.Beta,
		BetaError:          newModelError(r.BetaErr),
	}
}

// ExportNotes is the units note written into every Document.
const ExportNotes = "Units: A,B,C in 1/K; beta in K; R25 in ohms."

// DefaultExportFile is the file name suggested for exports.
const DefaultExportFile = "ntc_coeffs.json"

// Document is the coefficient export layout.
type Document struct {
	SteinhartHart thermistor.SteinhartHart `json:"SteinhartHart"`
	BetaModel     thermistor.Beta          `json:"BetaModel"`
	Notes         string                   `json:"notes"`
}

// Evaluation is the answer to one Evaluate request.
type Evaluation struct {
	CalibrationID string    `json:"calibrationId"`
	Model         Model     `json:"model"`
	Direction     Direction `json:"direction"`
	Input         float64   `json:"input"`
	Value         float64   `json:"value"`
	Unit          string    `json:"unit"`
}

func (e *ModelError) err() error {
	if e == nil {
		return nil
	}
	return ErrorFromCode(e.Code, e.Message)
}

// Result converts the view model back, restoring typed errors.
func (s Status) Result() Result {
	return Result{
		ID:               s.ID,
		CalibratedAt:     s.CalibratedAt,
		Observations:     s.Observations,
		SteinhartHart:    s.SteinhartHart,
		SteinhartHartErr: s.SteinhartHartError.err(),
		Beta:             s.Beta,
		BetaErr:          s.BetaError.err(),
	}
}
