// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonial-oss/sentinel-risk/internal/types"
)

func sampleCells() []types.RiskCell {
	return []types.RiskCell{
		{Probability: 4, Impact: 4, Label: "CVE-2023-4567", Count: 1},
		{Probability: 3, Impact: 3, Label: "CVE-2023-1234", Count: 1},
		{Probability: 2, Impact: 2, Label: "CVE-2023-8901", Count: 1},
		{Probability: 1, Impact: 3, Label: "Network Config", Count: 2},
		{Probability: 3, Impact: 1, Label: "Minor Issues", Count: 5},
	}
}

func TestAggregateMatrixCell_Empty(t *testing.T) {
	for p := 0; p < types.MatrixSize; p++ {
		for i := 0; i < types.MatrixSize; i++ {
			assert.Zero(t, AggregateMatrixCell(nil, p, i))
		}
	}
}

func TestAggregateMatrixCell_SumsSameCoordinate(t *testing.T) {
	cells := []types.RiskCell{
		{Probability: 2, Impact: 3, Count: 1},
		{Probability: 2, Impact: 3, Count: 5},
		{Probability: 3, Impact: 2, Count: 7},
	}
	assert.Equal(t, 6, AggregateMatrixCell(cells, 2, 3))
	assert.Equal(t, 7, AggregateMatrixCell(cells, 3, 2))
	assert.Zero(t, AggregateMatrixCell(cells, 2, 2), "no nearest-neighbour matching")
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(sampleCells())

	assert.Equal(t, 10, m.Total())

	c := m.Cell(3, 1)
	assert.Equal(t, 5, c.Count)
	assert.Equal(t, 3, c.Score)
	assert.Equal(t, types.RiskLow, c.Level)
	assert.Equal(t, []string{"Minor Issues"}, c.Labels)

	c = m.Cell(4, 4)
	assert.Equal(t, 1, c.Count)
	assert.Equal(t, types.RiskCritical, c.Level)

	empty := m.Cell(0, 0)
	assert.Zero(t, empty.Count)
	assert.Empty(t, empty.Labels)
	assert.Equal(t, types.RiskLow, empty.Level)
}

func TestBuildMatrix_MatchesAggregate(t *testing.T) {
	cells := sampleCells()
	m := BuildMatrix(cells)
	for p := 0; p < types.MatrixSize; p++ {
		for i := 0; i < types.MatrixSize; i++ {
			require.Equal(t, AggregateMatrixCell(cells, p, i), m.Cell(p, i).Count, "p=%d i=%d", p, i)
		}
	}
}

func TestBuildMatrix_IgnoresOutOfGrid(t *testing.T) {
	m := BuildMatrix([]types.RiskCell{{Probability: 5, Impact: 1, Count: 3}, {Probability: -1, Impact: 0, Count: 2}})
	assert.Zero(t, m.Total())
}

func TestDistribution(t *testing.T) {
	d := Distribution(sampleCells())
	assert.Equal(t, map[types.RiskLevel]int{
		types.RiskCritical: 1,
		types.RiskHigh:     1,
		types.RiskMedium:   1,
		types.RiskLow:      7,
	}, d)
}

func TestDistribution_EmptyHasAllLevels(t *testing.T) {
	d := Distribution(nil)
	require.Len(t, d, 4)
	for _, l := range types.RiskLevels {
		assert.Zero(t, d[l])
	}
}

func TestDistribution_MatchesMatrixTotal(t *testing.T) {
	cells := append(sampleCells(),
		types.RiskCell{Probability: 5, Impact: 4, Count: 3},
		types.RiskCell{Probability: 2, Impact: -1, Count: 4},
	)
	d := Distribution(cells)

	var sum int
	for _, n := range d {
		sum += n
	}
	m := BuildMatrix(cells)
	assert.Equal(t, m.Total(), sum)
	assert.Equal(t, 1, d[types.RiskCritical])
}
