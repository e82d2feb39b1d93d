package risk

import (
	"fmt"

	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
)

// Status is the lifecycle state of a register entry. Only OPEN and CLOSED
// take part in the open/closed split; anything else is still a valid status.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusMonitoring Status = "MONITORING"
	StatusClosed     Status = "CLOSED"
)

// Treatment is the chosen response to a risk. It never affects scoring.
type Treatment string

const (
	TreatmentAccept   Treatment = "ACCEPT"
	TreatmentMitigate Treatment = "MITIGATE"
	TreatmentTransfer Treatment = "TRANSFER"
	TreatmentAvoid    Treatment = "AVOID"
)

func (t Treatment) IsValid() bool {
	switch t {
	case TreatmentAccept, TreatmentMitigate, TreatmentTransfer, TreatmentAvoid:
		return true
	default:
		return false
	}
}

// ParseTreatment maps a wire value onto a Treatment; empty means MITIGATE.
func ParseTreatment(s string) (Treatment, error) {
	if s == "" {
		return TreatmentMitigate, nil
	}
	t := Treatment(s)
	if !t.IsValid() {
		return "", errors.NewValidationError("INVALID_TREATMENT",
			fmt.Sprintf("treatment must be one of ACCEPT, MITIGATE, TRANSFER, AVOID, got %q", s))
	}
	return t, nil
}

// Risk is a risk register entry. Score and level are derived on demand from
// the impact and likelihood ratings and are never stored alongside them.
type Risk struct {
	ID              string    `json:"id"`
	ImpactScore     int       `json:"impact_score"`
	LikelihoodScore int       `json:"likelihood_score"`
	Status          Status    `json:"status"`
	Treatment       Treatment `json:"treatment"`
}

// NewRisk builds an OPEN risk with the MITIGATE treatment, rejecting
// out-of-range ratings.
func NewRisk(id string, impact, likelihood int) (*Risk, error) {
	r := &Risk{
		ID:              id,
		ImpactScore:     impact,
		LikelihoodScore: likelihood,
		Status:          StatusOpen,
		Treatment:       TreatmentMitigate,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the ratings and treatment without mutating the risk.
func (r Risk) Validate() error {
	if _, err := Score(r.ImpactScore, r.LikelihoodScore); err != nil {
		return err
	}
	if r.Treatment != "" && !r.Treatment.IsValid() {
		return errors.NewValidationError("INVALID_TREATMENT",
			fmt.Sprintf("treatment must be one of ACCEPT, MITIGATE, TRANSFER, AVOID, got %q", r.Treatment))
	}
	return nil
}

func (r Risk) Score() (int, error) {
	return Score(r.ImpactScore, r.LikelihoodScore)
}

func (r Risk) Level() (Level, error) {
	c, err := r.Classify()
	if err != nil {
		return 0, err
	}
	return c.Level, nil
}

// Classify returns the derived score and level, annotating any failure with the risk ID.
func (r Risk) Classify() (Classification, error) {
	c, err := Classify(r.ImpactScore, r.LikelihoodScore)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			details := map[string]interface{}{"risk_id": r.ID}
			for k, v := range appErr.Details {
				details[k] = v
			}
			return Classification{}, errors.NewValidationError(appErr.Code,
				fmt.Sprintf("risk %q: %s", r.ID, appErr.Message)).WithDetails(details)
		}
		return Classification{}, err
	}
	return c, nil
}

func (r Risk) IsOpen() bool {
	return r.Status == StatusOpen
}

func (r Risk) IsClosed() bool {
	return r.Status == StatusClosed
}
