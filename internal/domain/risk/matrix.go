package risk

import (
	"sort"
)

// MatrixSize is the number of ratings along each axis.
const MatrixSize = MaxRating - MinRating + 1

// MatrixCell is one (impact, likelihood) coordinate of the 5x5 grid.
type MatrixCell struct {
	Impact     int      `json:"impact"`
	Likelihood int      `json:"likelihood"`
	Score      int      `json:"score"`
	Level      Level    `json:"level"`
	RiskIDs    []string `json:"risk_ids"`
}

// RiskCount is the number of risks placed in the cell.
func (c MatrixCell) RiskCount() int {
	return len(c.RiskIDs)
}

// Matrix is a fully populated 5x5 risk matrix.
type Matrix struct {
	cells [MatrixSize][MatrixSize]MatrixCell
}

// BuildMatrix places every risk into the cell matching its ratings. All 25
// cells are present even when empty. A single out-of-range risk fails the build.
func BuildMatrix(risks []Risk) (*Matrix, error) {
	m := newEmptyMatrix()

	for _, r := range risks {
		c, err := r.Classify()
		if err != nil {
			return nil, err
		}
		cell := &m.cells[c.Impact-MinRating][c.Likelihood-MinRating]
		cell.RiskIDs = append(cell.RiskIDs, r.ID)
	}

	// membership must not depend on input order
	for i := range m.cells {
		for j := range m.cells[i] {
			sort.Strings(m.cells[i][j].RiskIDs)
		}
	}

	return m, nil
}

func newEmptyMatrix() *Matrix {
	m := &Matrix{}
	for impact := MinRating; impact <= MaxRating; impact++ {
		for likelihood := MinRating; likelihood <= MaxRating; likelihood++ {
			c, _ := Classify(impact, likelihood)
			m.cells[impact-MinRating][likelihood-MinRating] = MatrixCell{
				Impact:     impact,
				Likelihood: likelihood,
				Score:      c.Score,
				Level:      c.Level,
				RiskIDs:    []string{},
			}
		}
	}
	return m
}

// Cell returns the cell at (impact, likelihood). ok is false outside [1,5]x[1,5].
func (m *Matrix) Cell(impact, likelihood int) (MatrixCell, bool) {
	if impact < MinRating || impact > MaxRating || likelihood < MinRating || likelihood > MaxRating {
		return MatrixCell{}, false
	}
	return copyCell(m.cells[impact-MinRating][likelihood-MinRating]), true
}

// Cells returns all 25 cells ordered by impact, then likelihood, ascending.
func (m *Matrix) Cells() []MatrixCell {
	out := make([]MatrixCell, 0, MatrixSize*MatrixSize)
	for i := range m.cells {
		for j := range m.cells[i] {
			out = append(out, copyCell(m.cells[i][j]))
		}
	}
	return out
}

// TotalRisks sums the risk counts of every cell.
func (m *Matrix) TotalRisks() int {
	total := 0
	for i := range m.cells {
		for j := range m.cells[i] {
			total += m.cells[i][j].RiskCount()
		}
	}
	return total
}

func copyCell(c MatrixCell) MatrixCell {
	ids := make([]string, len(c.RiskIDs))
	copy(ids, c.RiskIDs)
	c.RiskIDs = ids
	return c
}
