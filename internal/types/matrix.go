// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

// MatrixSize is the number of levels on each axis of the risk matrix.
const MatrixSize = 5

// ProbabilityLabels names the probability axis, indexed 0..4.
var ProbabilityLabels = [MatrixSize]string{"Very Low", "Low", "Medium", "High", "Very High"}

// ImpactLabels names the impact axis, indexed 0..4.
var ImpactLabels = [MatrixSize]string{"Negligible", "Minor", "Moderate", "Major", "Severe"}

// RiskCell is a finding placed on the risk matrix. Several cells may share a
// coordinate; their counts are summed when the matrix is built.
type RiskCell struct {
	Probability int    `json:"probability" yaml:"probability"`
	Impact      int    `json:"impact" yaml:"impact"`
	Label       string `json:"label" yaml:"label"`
	Count       int    `json:"count" yaml:"count"`
	Intel       *Intel `json:"intel,omitempty" yaml:"intel,omitempty"`
}

// Validate checks the coordinate range and count.
func (c *RiskCell) Validate() error {
	if c.Probability < 0 || c.Probability >= MatrixSize {
		return invalid("probability index out of range [0,4]", "probability", c.Probability)
	}
	if c.Impact < 0 || c.Impact >= MatrixSize {
		return invalid("impact index out of range [0,4]", "impact", c.Impact)
	}
	if c.Count < 0 {
		return invalid("finding count must not be negative", "count", c.Count)
	}
	return nil
}
