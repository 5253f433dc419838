package thermistor

import "errors"

var (
	// ErrInvalidInputCount is returned when a fit receives the wrong number of observations.
	ErrInvalidInputCount = errors.New("invalid number of observations")

	// ErrInvalidObservation is returned for non-positive resistances and non-finite values.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrSingularFit is returned when a fit cannot produce finite coefficients.
	ErrSingularFit = errors.New("singular fit")

	// ErrNonPhysicalResult is returned when an evaluation implies a non-positive absolute temperature.
	ErrNonPhysicalResult = errors.New("non-physical result")
)
