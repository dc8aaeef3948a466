// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// Bounds of the 1-10 scale used by treatment items.
const (
	TreatmentScaleMin = 1
	TreatmentScaleMax = 10
)

// RiskTreatmentItem is a planned response to a single vulnerability.
// RiskLevel may be supplied as a literal; when it is zero the level is
// derived from Probability and Impact.
type RiskTreatmentItem struct {
	ID            string    `json:"id" yaml:"id"`
	Vulnerability string    `json:"vulnerability" yaml:"vulnerability"`
	Probability   int       `json:"probability" yaml:"probability"`
	Impact        int       `json:"impact" yaml:"impact"`
	RiskScore     int       `json:"riskScore" yaml:"riskScore"`
	RiskLevel     RiskLevel `json:"riskLevel,omitempty" yaml:"riskLevel,omitempty"`
	Strategy      Strategy  `json:"recommendedStrategy" yaml:"recommendedStrategy"`
	EstimatedCost float64   `json:"estimatedCost" yaml:"estimatedCost"`
	ResidualRisk  int       `json:"residualRisk" yaml:"residualRisk"`
	Controls      []string  `json:"controls,omitempty" yaml:"controls,omitempty"`
}

// Validate checks required fields and scale ranges. A non-zero risk score
// must equal probability × impact.
func (t *RiskTreatmentItem) Validate() error {
	if strings.TrimSpace(t.Vulnerability) == "" {
		return invalid("treatment vulnerability is required", "vulnerability", t.Vulnerability)
	}
	if t.Probability < TreatmentScaleMin || t.Probability > TreatmentScaleMax {
		return invalid("treatment probability out of range [1,10]", "probability", t.Probability)
	}
	if t.Impact < TreatmentScaleMin || t.Impact > TreatmentScaleMax {
		return invalid("treatment impact out of range [1,10]", "impact", t.Impact)
	}
	if t.RiskScore != 0 && t.RiskScore != t.Probability*t.Impact {
		return invalid("risk score must equal probability × impact", "riskScore", t.RiskScore)
	}
	if t.RiskLevel != 0 && !t.RiskLevel.Valid() {
		return invalid("invalid risk level", "riskLevel", int(t.RiskLevel))
	}
	if _, err := ParseStrategy(string(t.Strategy)); err != nil {
		return err
	}
	if t.EstimatedCost < 0 {
		return invalid("estimated cost must not be negative", "estimatedCost", t.EstimatedCost)
	}
	if t.ResidualRisk < 0 || t.ResidualRisk > 100 {
		return invalid("residual risk out of range [0,100]", "residualRisk", t.ResidualRisk)
	}
	return nil
}
