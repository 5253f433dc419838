package calibration

import (
	"errors"

	"github.com/charlie0129/ntccal/pkg/thermistor"
)

// Stable names of the error kinds, used on the wire.
const (
	CodeInvalidInputCount  = "InvalidInputCount"
	CodeInvalidObservation = "InvalidObservation"
	CodeSingularFit        = "SingularFit"
	CodeNonPhysicalResult  = "NonPhysicalResult"
	CodeNotCalibrated      = "NotCalibrated"
	CodeInternal           = "Internal"
	// CodeBadRequest marks a malformed request that no sentinel describes.
	CodeBadRequest = "BadRequest"
)

var codes = []struct {
	code string
	err  error
}{
	{CodeInvalidInputCount, thermistor.ErrInvalidInputCount},
	{CodeInvalidObservation, thermistor.ErrInvalidObservation},
	{CodeSingularFit, thermistor.ErrSingularFit},
	{CodeNonPhysicalResult, thermistor.ErrNonPhysicalResult},
	{CodeNotCalibrated, ErrNotCalibrated},
}

// ErrorCode returns the stable name of err's kind, or CodeInternal.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// codedError restores a typed error from its wire form.
type codedError struct {
	kind error
	msg  string
}

func (e *codedError) Error() string { return e.msg }
func (e *codedError) Unwrap() error { return e.kind }

// ErrorFromCode rebuilds an error that matches the sentinel named by code
// with errors.Is. Unknown codes give a plain error.
func ErrorFromCode(code, msg string) error {
	if msg == "" {
		msg = code
	}
	for _, c := range codes {
		if c.code == code {
			return &codedError{kind: c.err, msg: msg}
		}
	}
	return errors.New(msg)
}

// ErrorBody is the JSON body of a failed daemon request.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Err restores the typed error carried by b.
func (b ErrorBody) Err() error {
	return ErrorFromCode(b.Code, b.Error)
}
