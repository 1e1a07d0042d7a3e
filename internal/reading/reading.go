package reading

import (
	"errors"
	"fmt"
	"strings"
)

// Reading statuses.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	// StatusProcessing is reserved for a future claim-marking update; the
	// current flow never sets it.
	StatusProcessing = "processing"
)

// NoNewState is stored as newState when the processor reports none.
const NoNewState = "n/a"

// Reading is one unit of work: an uploaded sensor blob awaiting processing,
// or its completed result. JSON field names follow the wire contract the
// uploader and worker already speak.
type Reading struct {
	UUID                 string `json:"uuid"`
	Status               string `json:"status"`
	B64Contents          string `json:"b64contents"`
	OldState             string `json:"oldState,omitempty"`
	SensorStartTimestamp *int64 `json:"sensorStartTimestamp,omitempty"`
	SensorScanTimestamp  *int64 `json:"sensorScanTimestamp,omitempty"`
	CurrentUtcOffset     *int64 `json:"currentUtcOffset,omitempty"`
	Result               string `json:"result,omitempty"`
	NewState             string `json:"newState,omitempty"`
	CreatedAtMs          int64  `json:"createdAtMs"`
	ModifiedAtMs         int64  `json:"modifiedAtMs"`
}

// Advanced carries the optional four-field parameter bundle as received on
// the wire. The bundle is all-or-nothing: either every field is empty or
// every field is present and well-formed.
type Advanced struct {
	OldState             string
	SensorStartTimestamp string
	SensorScanTimestamp  string
	CurrentUtcOffset     string
}

func (a Advanced) empty() bool {
	return strings.TrimSpace(a.OldState+a.SensorStartTimestamp+a.SensorScanTimestamp+a.CurrentUtcOffset) == ""
}

func (a Advanced) complete() bool {
	return a.OldState != "" && a.SensorStartTimestamp != "" && a.SensorScanTimestamp != "" && a.CurrentUtcOffset != ""
}

// ErrNotFound is returned when an identifier has no matching reading.
var ErrNotFound = errors.New("reading: not found")

// ValidationError reports a malformed input, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
