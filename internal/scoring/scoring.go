// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package scoring maps categorical ratings to risk levels, asset values and
// matrix aggregates. Every function is pure. Out-of-range inputs are clamped
// to the nearest valid value; rejecting bad input is left to the callers that
// parse it.
package scoring

import (
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

const (
	// assetValueUnit is the monetary value of one CIA weight point.
	assetValueUnit = 10000

	// matrixMax is the largest product on the 0-4 matrix scale.
	matrixMax = (types.MatrixSize - 1) * (types.MatrixSize - 1)

	// treatmentMax is the largest product on the 1-10 treatment scale.
	treatmentMax = types.TreatmentScaleMax * types.TreatmentScaleMax
)

// Step thresholds expressed in sixteenths of the maximum product. On the
// matrix scale they are exactly the products 16, 9 and 4.
const (
	sixteenths         = 16
	criticalSixteenths = 16
	highSixteenths     = 9
	mediumSixteenths   = 4
)

// SeverityWeight returns the CIA weight of a level: Low=1 .. Critical=4.
func SeverityWeight(s types.SeverityLevel) int {
	switch {
	case s < types.SeverityLow:
		return int(types.SeverityLow)
	case s > types.SeverityCritical:
		return int(types.SeverityCritical)
	default:
		return int(s)
	}
}

// AssetValue derives the monetary value of an asset from its confidentiality,
// integrity and availability ratings: the sum of the three weights times
// 10000, i.e. 30000 for all Low up to 120000 for all Critical.
func AssetValue(confidentiality, integrity, availability types.SeverityLevel) int {
	return (SeverityWeight(confidentiality) + SeverityWeight(integrity) + SeverityWeight(availability)) * assetValueUnit
}

// MatrixScore returns probability × impact on the 0-4 index scale.
func MatrixScore(probability, impact int) int {
	return clamp(probability, 0, types.MatrixSize-1) * clamp(impact, 0, types.MatrixSize-1)
}

// ClassifyByProduct classifies a matrix coordinate. The score is
// probability × impact (0-16): >=16 Critical, >=9 High, >=4 Medium, else Low.
func ClassifyByProduct(probability, impact int) types.RiskLevel {
	return ClassifyScore(MatrixScore(probability, impact), matrixMax)
}

// TreatmentScore returns probability × impact on the 1-10 treatment scale.
func TreatmentScore(probability, impact int) int {
	return clamp(probability, types.TreatmentScaleMin, types.TreatmentScaleMax) *
		clamp(impact, types.TreatmentScaleMin, types.TreatmentScaleMax)
}

// ClassifyByScaledProduct classifies a treatment item from its 1-10
// probability and impact, using the same thresholds as the matrix relative
// to the largest attainable product.
func ClassifyByScaledProduct(probability, impact int) types.RiskLevel {
	return ClassifyScore(TreatmentScore(probability, impact), treatmentMax)
}

// ClassifyScore buckets score by its fraction of maxScore: at least 16/16 is
// Critical, 9/16 High, 4/16 Medium, anything below Low. Boundary values belong
// to the higher bucket. A non-positive maxScore classifies everything as Low.
func ClassifyScore(score, maxScore int) types.RiskLevel {
	if maxScore <= 0 {
		return types.RiskLow
	}
	scaled := score * sixteenths
	switch {
	case scaled >= criticalSixteenths*maxScore:
		return types.RiskCritical
	case scaled >= highSixteenths*maxScore:
		return types.RiskHigh
	case scaled >= mediumSixteenths*maxScore:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// Derive fills the values a workspace document may leave out: the value of
// assets without one and the risk score of treatment items without one.
// Supplied values are kept.
func Derive(ws *types.Workspace) {
	for i := range ws.Assets {
		a := &ws.Assets[i]
		if a.Value == 0 {
			a.Value = AssetValue(a.Confidentiality, a.Integrity, a.Availability)
		}
	}
	for i := range ws.Treatments {
		t := &ws.Treatments[i]
		if t.RiskScore == 0 {
			t.RiskScore = TreatmentScore(t.Probability, t.Impact)
		}
	}
}

// ResolveTreatmentLevel returns the level supplied on the item, or the
// derived one when none was supplied.
func ResolveTreatmentLevel(item types.RiskTreatmentItem) types.RiskLevel {
	if item.RiskLevel.Valid() {
		return item.RiskLevel
	}
	return ClassifyByScaledProduct(item.Probability, item.Impact)
}

// ResidualScore is the part of the item's risk score left after treatment.
func ResidualScore(item types.RiskTreatmentItem) float64 {
	score := item.RiskScore
	if score == 0 {
		score = TreatmentScore(item.Probability, item.Impact)
	}
	return float64(score) * float64(clamp(item.ResidualRisk, 0, 100)) / 100.0
}

// SeverityScore maps a vulnerability severity onto a 0-10 score.
func SeverityScore(s types.SeverityLevel) float64 {
	switch s {
	case types.SeverityLow:
		return 3.0
	case types.SeverityMedium:
		return 5.0
	case types.SeverityHigh:
		return 7.5
	case types.SeverityCritical:
		return 9.0
	default:
		return 3.0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
