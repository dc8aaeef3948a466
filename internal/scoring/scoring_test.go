// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bonial-oss/sentinel-risk/internal/types"
)

func TestAssetValue_Bounds(t *testing.T) {
	assert.Equal(t, 30000, AssetValue(types.SeverityLow, types.SeverityLow, types.SeverityLow))
	assert.Equal(t, 120000, AssetValue(types.SeverityCritical, types.SeverityCritical, types.SeverityCritical))
}

func TestAssetValue_Examples(t *testing.T) {
	// High + Critical + High = 3 + 4 + 3 = 10 -> 100000
	assert.Equal(t, 100000, AssetValue(types.SeverityHigh, types.SeverityCritical, types.SeverityHigh))
	// Medium defaults of a new asset: 2 + 2 + 2 = 6 -> 60000
	assert.Equal(t, 60000, AssetValue(types.SeverityMedium, types.SeverityMedium, types.SeverityMedium))
}

func TestAssetValue_MonotoneInEachArgument(t *testing.T) {
	levels := types.SeverityLevels
	for _, c := range levels {
		for _, i := range levels {
			for _, a := range levels {
				base := AssetValue(c, i, a)
				if c < types.SeverityCritical {
					assert.GreaterOrEqual(t, AssetValue(c+1, i, a), base)
				}
				if i < types.SeverityCritical {
					assert.GreaterOrEqual(t, AssetValue(c, i+1, a), base)
				}
				if a < types.SeverityCritical {
					assert.GreaterOrEqual(t, AssetValue(c, i, a+1), base)
				}
			}
		}
	}
}

func TestAssetValue_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 30000, AssetValue(0, -3, 0))
	assert.Equal(t, 120000, AssetValue(9, 5, 100))
}

func TestClassifyByProduct_Boundaries(t *testing.T) {
	tests := []struct {
		name        string
		probability int
		impact      int
		want        types.RiskLevel
	}{
		{"4x4=16 critical", 4, 4, types.RiskCritical},
		{"3x3=9 high", 3, 3, types.RiskHigh},
		{"2x4=8 medium", 2, 4, types.RiskMedium},
		{"2x2=4 medium", 2, 2, types.RiskMedium},
		{"1x3=3 low", 1, 3, types.RiskLow},
		{"1x1=1 low", 1, 1, types.RiskLow},
		{"0x4=0 low", 0, 4, types.RiskLow},
		{"0x0=0 low", 0, 0, types.RiskLow},
		{"3x4=12 high", 3, 4, types.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyByProduct(tt.probability, tt.impact))
		})
	}
}

func TestClassifyByProduct_ZeroRow(t *testing.T) {
	for i := 0; i < types.MatrixSize; i++ {
		assert.Equal(t, types.RiskLow, ClassifyByProduct(0, i))
	}
}

func TestClassifyByProduct_Symmetric(t *testing.T) {
	for p := 0; p < types.MatrixSize; p++ {
		for i := 0; i < types.MatrixSize; i++ {
			assert.Equal(t, ClassifyByProduct(p, i), ClassifyByProduct(i, p), "p=%d i=%d", p, i)
		}
	}
}

func TestClassifyByProduct_ClampsIndices(t *testing.T) {
	assert.Equal(t, types.RiskCritical, ClassifyByProduct(7, 9))
	assert.Equal(t, types.RiskLow, ClassifyByProduct(-1, 4))
	assert.Equal(t, 16, MatrixScore(10, 10))
}

func TestClassifyByScaledProduct(t *testing.T) {
	tests := []struct {
		probability int
		impact      int
		wantScore   int
		want        types.RiskLevel
	}{
		{10, 10, 100, types.RiskCritical},
		{8, 9, 72, types.RiskHigh},
		{8, 7, 56, types.RiskMedium}, // 56/100 < 9/16
		{6, 7, 42, types.RiskMedium},
		{5, 5, 25, types.RiskMedium}, // exactly 4/16
		{4, 6, 24, types.RiskLow},
		{4, 5, 20, types.RiskLow},
		{1, 1, 1, types.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantScore, TreatmentScore(tt.probability, tt.impact))
		assert.Equal(t, tt.want, ClassifyByScaledProduct(tt.probability, tt.impact),
			"p=%d i=%d", tt.probability, tt.impact)
	}
}

func TestClassifyScore_MatrixScaleMatchesThresholdTable(t *testing.T) {
	for score := 0; score <= 16; score++ {
		var want types.RiskLevel
		switch {
		case score >= 16:
			want = types.RiskCritical
		case score >= 9:
			want = types.RiskHigh
		case score >= 4:
			want = types.RiskMedium
		default:
			want = types.RiskLow
		}
		assert.Equal(t, want, ClassifyScore(score, 16), "score=%d", score)
	}
}

func TestClassifyScore_NonPositiveMax(t *testing.T) {
	assert.Equal(t, types.RiskLow, ClassifyScore(50, 0))
	assert.Equal(t, types.RiskLow, ClassifyScore(50, -10))
}

func TestResolveTreatmentLevel(t *testing.T) {
	literal := types.RiskTreatmentItem{Probability: 8, Impact: 9, RiskLevel: types.RiskCritical}
	assert.Equal(t, types.RiskCritical, ResolveTreatmentLevel(literal))

	derived := types.RiskTreatmentItem{Probability: 8, Impact: 9}
	assert.Equal(t, types.RiskHigh, ResolveTreatmentLevel(derived))
}

func TestResidualScore(t *testing.T) {
	item := types.RiskTreatmentItem{Probability: 8, Impact: 9, RiskScore: 72, ResidualRisk: 20}
	assert.InDelta(t, 14.4, ResidualScore(item), 0.001)

	// Score is derived when missing.
	item.RiskScore = 0
	assert.InDelta(t, 14.4, ResidualScore(item), 0.001)

	item.ResidualRisk = 0
	assert.Zero(t, ResidualScore(item))
}

func TestDerive(t *testing.T) {
	ws := types.Workspace{
		Assets: []types.Asset{
			{Confidentiality: types.SeverityCritical, Integrity: types.SeverityCritical, Availability: types.SeverityHigh},
			{Confidentiality: types.SeverityLow, Integrity: types.SeverityLow, Availability: types.SeverityLow, Value: 95000},
		},
		Treatments: []types.RiskTreatmentItem{
			{Probability: 8, Impact: 9},
			{Probability: 4, Impact: 5, RiskScore: 20},
		},
	}
	Derive(&ws)

	assert.Equal(t, 110000, ws.Assets[0].Value)
	assert.Equal(t, 95000, ws.Assets[1].Value)
	assert.Equal(t, 72, ws.Treatments[0].RiskScore)
	assert.Equal(t, 20, ws.Treatments[1].RiskScore)
}

func TestSeverityScore(t *testing.T) {
	assert.InDelta(t, 3.0, SeverityScore(types.SeverityLow), 0.001)
	assert.InDelta(t, 5.0, SeverityScore(types.SeverityMedium), 0.001)
	assert.InDelta(t, 7.5, SeverityScore(types.SeverityHigh), 0.001)
	assert.InDelta(t, 9.0, SeverityScore(types.SeverityCritical), 0.001)
}

func TestScoring_Idempotent(t *testing.T) {
	cells := []types.RiskCell{{Probability: 1, Impact: 3, Count: 2}, {Probability: 1, Impact: 3, Count: 4}}
	for i := 0; i < 3; i++ {
		assert.Equal(t, AssetValue(types.SeverityHigh, types.SeverityLow, types.SeverityMedium),
			AssetValue(types.SeverityHigh, types.SeverityLow, types.SeverityMedium))
		assert.Equal(t, ClassifyByProduct(3, 2), ClassifyByProduct(3, 2))
		assert.Equal(t, ClassifyByScaledProduct(6, 7), ClassifyByScaledProduct(6, 7))
		assert.Equal(t, AggregateMatrixCell(cells, 1, 3), AggregateMatrixCell(cells, 1, 3))
	}
}
