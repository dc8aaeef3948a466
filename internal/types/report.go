// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"net/mail"
	"strings"
)

// Section identifies one part of the generated report.
type Section string

const (
	SectionExecutiveSummary    Section = "executive-summary"
	SectionVulnerabilities     Section = "vulnerabilities"
	SectionRiskMatrix          Section = "risk-matrix"
	SectionAssetClassification Section = "asset-classification"
	SectionTreatmentPlan       Section = "treatment-plan"
	SectionConsultation        Section = "consultation"
	SectionMetrics             Section = "metrics"
)

// Sections lists every report section in rendering order.
var Sections = []Section{
	SectionExecutiveSummary,
	SectionVulnerabilities,
	SectionRiskMatrix,
	SectionAssetClassification,
	SectionTreatmentPlan,
	SectionConsultation,
	SectionMetrics,
}

// Title returns the heading used for the section.
func (s Section) Title() string {
	switch s {
	case SectionExecutiveSummary:
		return "Executive Summary"
	case SectionVulnerabilities:
		return "Vulnerability Analysis"
	case SectionRiskMatrix:
		return "Risk Matrix"
	case SectionAssetClassification:
		return "Asset Classification"
	case SectionTreatmentPlan:
		return "Risk Treatment Plan"
	case SectionConsultation:
		return "Stakeholder Consultation"
	case SectionMetrics:
		return "Metrics & KPIs"
	default:
		return string(s)
	}
}

// ParseSection parses a section identifier.
func ParseSection(s string) (Section, error) {
	for _, v := range Sections {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalid("unknown report section", "section", s)
}

// DefaultReportTitle is used when a report config has no title.
const DefaultReportTitle = "Cybersecurity Risk Assessment Report"

// ReportConfig selects what the generated report contains.
type ReportConfig struct {
	Title                      string `json:"title" yaml:"title"`
	IncludeExecutiveSummary    bool   `json:"includeExecutiveSummary" yaml:"includeExecutiveSummary"`
	IncludeVulnerabilities     bool   `json:"includeVulnerabilities" yaml:"includeVulnerabilities"`
	IncludeRiskMatrix          bool   `json:"includeRiskMatrix" yaml:"includeRiskMatrix"`
	IncludeAssetClassification bool   `json:"includeAssetClassification" yaml:"includeAssetClassification"`
	IncludeTreatmentPlan       bool   `json:"includeTreatmentPlan" yaml:"includeTreatmentPlan"`
	IncludeConsultation        bool   `json:"includeConsultation" yaml:"includeConsultation"`
	IncludeMetrics             bool   `json:"includeMetrics" yaml:"includeMetrics"`
	RecipientEmail             string `json:"recipientEmail,omitempty" yaml:"recipientEmail,omitempty"`
	ScheduledGeneration        bool   `json:"scheduledGeneration" yaml:"scheduledGeneration"`
}

// DefaultReportConfig enables every section except stakeholder consultation.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:                      DefaultReportTitle,
		IncludeExecutiveSummary:    true,
		IncludeVulnerabilities:     true,
		IncludeRiskMatrix:          true,
		IncludeAssetClassification: true,
		IncludeTreatmentPlan:       true,
		IncludeMetrics:             true,
	}
}

// Includes reports whether the section is enabled.
func (c *ReportConfig) Includes(s Section) bool {
	switch s {
	case SectionExecutiveSummary:
		return c.IncludeExecutiveSummary
	case SectionVulnerabilities:
		return c.IncludeVulnerabilities
	case SectionRiskMatrix:
		return c.IncludeRiskMatrix
	case SectionAssetClassification:
		return c.IncludeAssetClassification
	case SectionTreatmentPlan:
		return c.IncludeTreatmentPlan
	case SectionConsultation:
		return c.IncludeConsultation
	case SectionMetrics:
		return c.IncludeMetrics
	default:
		return false
	}
}

// Set enables or disables a section.
func (c *ReportConfig) Set(s Section, on bool) {
	switch s {
	case SectionExecutiveSummary:
		c.IncludeExecutiveSummary = on
	case SectionVulnerabilities:
		c.IncludeVulnerabilities = on
	case SectionRiskMatrix:
		c.IncludeRiskMatrix = on
	case SectionAssetClassification:
		c.IncludeAssetClassification = on
	case SectionTreatmentPlan:
		c.IncludeTreatmentPlan = on
	case SectionConsultation:
		c.IncludeConsultation = on
	case SectionMetrics:
		c.IncludeMetrics = on
	}
}

// Enabled returns the enabled sections in rendering order.
func (c *ReportConfig) Enabled() []Section {
	var out []Section
	for _, s := range Sections {
		if c.Includes(s) {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the recipient address when one is set.
func (c *ReportConfig) Validate() error {
	if c.RecipientEmail == "" {
		return nil
	}
	if _, err := mail.ParseAddress(c.RecipientEmail); err != nil {
		return invalid("invalid recipient email", "recipientEmail", c.RecipientEmail)
	}
	return nil
}
