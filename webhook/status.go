package webhook

import "fmt"

/* Status represents the processing state of a stored webhook record
 * The ingestion core only ever produces Received; the taxonomy is
 * open for a future processing stage
 */
type Status int

const (
	Received Status = iota + 1
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Received:
		return "received"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "received":
		return Received
	default:
		return Received
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s != Received {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// MarshalJSON encodes the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the status from its string form
func (s *Status) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid status value: %s", data)
	}
	*s = NewStatus(string(data[1 : len(data)-1]))
	return nil
}
