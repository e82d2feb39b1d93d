package compliance

import (
	"fmt"

	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
)

// ImplementationStatus tracks how far a control has been put in place.
type ImplementationStatus string

const (
	StatusNotImplemented       ImplementationStatus = "NOT_IMPLEMENTED"
	StatusPartiallyImplemented ImplementationStatus = "PARTIALLY_IMPLEMENTED"
	StatusImplemented          ImplementationStatus = "IMPLEMENTED"
	StatusNotApplicable        ImplementationStatus = "NOT_APPLICABLE"
)

func (s ImplementationStatus) IsValid() bool {
	switch s {
	case StatusNotImplemented, StatusPartiallyImplemented, StatusImplemented, StatusNotApplicable:
		return true
	default:
		return false
	}
}

// Control is a requirement from a compliance standard.
type Control struct {
	ID                   string               `json:"id"`
	Domain               string               `json:"domain"`
	ImplementationStatus ImplementationStatus `json:"implementation_status"`
}

// IsImplemented is true only for fully implemented controls.
func (c Control) IsImplemented() bool {
	return c.ImplementationStatus == StatusImplemented
}

// Counts is the control total and the implemented subset.
type Counts struct {
	Total       int `json:"total_controls"`
	Implemented int `json:"implemented_controls"`
}

// Validate enforces 0 <= Implemented <= Total.
func (c Counts) Validate() error {
	if c.Total < 0 || c.Implemented < 0 || c.Implemented > c.Total {
		return errors.NewInvalidControlCounts(c.Total, c.Implemented)
	}
	return nil
}

// CountControls tallies controls; partially implemented controls do not count
// as implemented. Unknown statuses are rejected.
func CountControls(controls []Control) (Counts, error) {
	var counts Counts
	for _, c := range controls {
		if !c.ImplementationStatus.IsValid() {
			return Counts{}, errors.NewValidationError("INVALID_IMPLEMENTATION_STATUS",
				fmt.Sprintf("control %q has unknown implementation status %q", c.ID, c.ImplementationStatus))
		}
		counts.Total++
		if c.IsImplemented() {
			counts.Implemented++
		}
	}
	return counts, nil
}
