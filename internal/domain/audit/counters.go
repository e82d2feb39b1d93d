package audit

// Status is the workflow state of an audit engagement.
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusClosed     Status = "CLOSED"
)

// IsActive is true for audits that have not finished yet.
func (s Status) IsActive() bool {
	return s == StatusPlanned || s == StatusInProgress
}

// FindingStatus is the resolution state of a non-conformity.
type FindingStatus string

const (
	FindingOpen       FindingStatus = "OPEN"
	FindingInProgress FindingStatus = "IN_PROGRESS"
	FindingResolved   FindingStatus = "RESOLVED"
	FindingClosed     FindingStatus = "CLOSED"
)

// IsOpen is true for findings still awaiting resolution.
func (s FindingStatus) IsOpen() bool {
	return s == FindingOpen || s == FindingInProgress
}

// Counters are the audit figures shown on the dashboard. The engine passes
// them through untouched.
type Counters struct {
	TotalAudits  int `json:"total_audits"`
	ActiveAudits int `json:"active_audits"`
	OpenFindings int `json:"open_findings"`
}

// Tally derives counters from audit and finding statuses.
func Tally(audits []Status, findings []FindingStatus) Counters {
	c := Counters{TotalAudits: len(audits)}
	for _, s := range audits {
		if s.IsActive() {
			c.ActiveAudits++
		}
	}
	for _, f := range findings {
		if f.IsOpen() {
			c.OpenFindings++
		}
	}
	return c
}
