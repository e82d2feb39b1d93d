package compliance

import (
	"github.com/shopspring/decimal"
)

// PercentagePlaces is the number of decimals kept in compliance percentages.
const PercentagePlaces = 1

var hundred = decimal.NewFromInt(100)

// Summary is the compliance ratio for a set of controls.
type Summary struct {
	TotalControls       int     `json:"total_controls"`
	ImplementedControls int     `json:"implemented_controls"`
	Percentage          float64 `json:"percentage"`
}

// Summarize computes implemented/total as a percentage rounded half up to one
// decimal. Zero controls yield 0%.
func Summarize(total, implemented int) (Summary, error) {
	counts := Counts{Total: total, Implemented: implemented}
	if err := counts.Validate(); err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalControls:       total,
		ImplementedControls: implemented,
		Percentage:          Percentage(implemented, total),
	}, nil
}

// Percentage returns part/whole*100 rounded half up to one decimal, or 0 when
// whole is not positive. Arithmetic is exact decimal so .x5 ties round up.
func Percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	// multiply first to keep exact quotients such as 100/16 = 6.25 exact
	pct := decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(whole))).
		Round(PercentagePlaces)
	return pct.InexactFloat64()
}
