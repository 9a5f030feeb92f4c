// Package classify implements the dual-path anomaly classifiers behind the
// monitoring loop: a mock-trained scoring model as the primary path, with
// fixed heuristic rules (traffic) or a stochastic hold (device) as the
// fallback when the model path fails.
package classify

import "fmt"

// Status is the severity classification shared by the device and traffic
// paths. Severity increases with the value: Normal < Warning < Danger.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusDanger
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusWarning:
		return "warning"
	case StatusDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its lowercase name for API consumers.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON parses the lowercase status name.
func (s *Status) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"normal"`:
		*s = StatusNormal
	case `"warning"`:
		*s = StatusWarning
	case `"danger"`:
		*s = StatusDanger
	default:
		return fmt.Errorf("unknown status %s", data)
	}
	return nil
}

// Path identifies which branch of a classifier produced a result.
type Path int

const (
	// PathModel: the primary scoring model ran successfully.
	PathModel Path = iota
	// PathFallback: the model failed and the fallback rule decided.
	PathFallback
	// PathRejected: the input failed validation; a safe default was returned.
	PathRejected
)

func (p Path) String() string {
	switch p {
	case PathModel:
		return "model"
	case PathFallback:
		return "fallback"
	case PathRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
