package events

import "encoding/json"

// Event name constants
const (
	// Ready is sent once when a stream opens.
	Ready                  = "ready"
	CalibrationUpdated     = "calibration.updated"
	CalibrationInvalidated = "calibration.invalidated"
	ObservationsChanged    = "observations.changed"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// CalibrationUpdatedEvent is the payload for calibration.updated.
type CalibrationUpdatedEvent struct {
	ID               string `json:"id"`
	Observations     int    `json:"observations"`
	SteinhartHartOK  bool   `json:"steinhartHartOk"`
	BetaOK           bool   `json:"betaOk"`
	SteinhartHartErr string `json:"steinhartHartError,omitempty"`
	BetaErr          string `json:"betaError,omitempty"`
	Ts               int64  `json:"ts"`
}

// CalibrationInvalidatedEvent is the payload for calibration.invalidated.
type CalibrationInvalidatedEvent struct {
	Reason string `json:"reason"`
	Ts     int64  `json:"ts"`
}

// ObservationsChangedEvent is the payload for observations.changed.
type ObservationsChangedEvent struct {
	Count int   `json:"count"`
	Ts    int64 `json:"ts"`
}

// DecodeAs unmarshals the payload of e into T. Empty data yields the zero
// value of T.
//
// Example:
//
//	payload, err := events.DecodeAs[events.CalibrationUpdatedEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.ID)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
