// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// AggregateMatrixCell sums the counts of all cells at exactly the given
// coordinate. No match yields 0.
func AggregateMatrixCell(cells []types.RiskCell, probability, impact int) int {
	var sum int
	for _, c := range cells {
		if c.Probability == probability && c.Impact == impact {
			sum += c.Count
		}
	}
	return sum
}

// MatrixCell is one aggregated square of the risk matrix.
type MatrixCell struct {
	Probability int             `json:"probability" yaml:"probability"`
	Impact      int             `json:"impact" yaml:"impact"`
	Score       int             `json:"score" yaml:"score"`
	Level       types.RiskLevel `json:"level" yaml:"level"`
	Count       int             `json:"count" yaml:"count"`
	Labels      []string        `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Matrix is the 5x5 probability-by-impact grid, indexed [probability][impact].
type Matrix struct {
	Cells [types.MatrixSize][types.MatrixSize]MatrixCell `json:"cells" yaml:"cells"`
}

// BuildMatrix aggregates cells onto the grid. Cells outside the grid are
// ignored.
func BuildMatrix(cells []types.RiskCell) Matrix {
	var m Matrix
	for p := 0; p < types.MatrixSize; p++ {
		for i := 0; i < types.MatrixSize; i++ {
			m.Cells[p][i] = MatrixCell{
				Probability: p,
				Impact:      i,
				Score:       MatrixScore(p, i),
				Level:       ClassifyByProduct(p, i),
			}
		}
	}
	for _, c := range cells {
		if !inGrid(c.Probability) || !inGrid(c.Impact) {
			continue
		}
		mc := &m.Cells[c.Probability][c.Impact]
		mc.Count += c.Count
		if c.Label != "" {
			mc.Labels = append(mc.Labels, c.Label)
		}
	}
	return m
}

// Cell returns the aggregated cell at the coordinate, clamped onto the grid.
func (m *Matrix) Cell(probability, impact int) MatrixCell {
	return m.Cells[clamp(probability, 0, types.MatrixSize-1)][clamp(impact, 0, types.MatrixSize-1)]
}

// Total returns the sum of all cell counts.
func (m *Matrix) Total() int {
	var sum int
	for p := range m.Cells {
		for i := range m.Cells[p] {
			sum += m.Cells[p][i].Count
		}
	}
	return sum
}

// Distribution sums finding counts per risk level. Every level is present in
// the result, with zero when no finding falls into it. Cells outside the grid
// are skipped, as in BuildMatrix.
func Distribution(cells []types.RiskCell) map[types.RiskLevel]int {
	out := make(map[types.RiskLevel]int, len(types.RiskLevels))
	for _, l := range types.RiskLevels {
		out[l] = 0
	}
	for _, c := range cells {
		if !inGrid(c.Probability) || !inGrid(c.Impact) {
			continue
		}
		out[ClassifyByProduct(c.Probability, c.Impact)] += c.Count
	}
	return out
}

func inGrid(v int) bool {
	return v >= 0 && v < types.MatrixSize
}
