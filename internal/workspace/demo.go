// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"time"

	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// Demo returns the sample workspace shown on a fresh dashboard.
func Demo() types.Workspace {
	return DemoAt(time.Now())
}

// DemoAt is Demo with consultation timestamps relative to now.
func DemoAt(now time.Time) types.Workspace {
	return types.Workspace{
		Assets: []types.Asset{
			{
				ID:              "1",
				Name:            "Web Server",
				Type:            "Server",
				Confidentiality: types.SeverityHigh,
				Integrity:       types.SeverityCritical,
				Availability:    types.SeverityHigh,
				Value:           95000,
				Owner:           "IT Department",
			},
			{
				ID:              "2",
				Name:            "Customer Database",
				Type:            "Database",
				Confidentiality: types.SeverityCritical,
				Integrity:       types.SeverityCritical,
				Availability:    types.SeverityHigh,
				Value:           250000,
				Owner:           "Data Management Team",
			},
		},
		Findings: []types.RiskCell{
			{Probability: 4, Impact: 4, Label: "CVE-2023-4567", Count: 1},
			{Probability: 3, Impact: 3, Label: "CVE-2023-1234", Count: 1},
			{Probability: 2, Impact: 2, Label: "CVE-2023-8901", Count: 1},
			{Probability: 1, Impact: 3, Label: "Network Config", Count: 2},
			{Probability: 3, Impact: 1, Label: "Minor Issues", Count: 5},
		},
		Treatments: []types.RiskTreatmentItem{
			{
				ID:            "1",
				Vulnerability: "Apache HTTP Server RCE",
				Probability:   8,
				Impact:        9,
				RiskScore:     72,
				RiskLevel:     types.RiskCritical,
				Strategy:      types.StrategyMitigate,
				EstimatedCost: 15000,
				ResidualRisk:  20,
				Controls:      []string{"Patch Management", "WAF Implementation", "Network Segmentation"},
			},
			{
				ID:            "2",
				Vulnerability: "OpenSSL Certificate Issue",
				Probability:   6,
				Impact:        7,
				RiskScore:     42,
				RiskLevel:     types.RiskHigh,
				Strategy:      types.StrategyMitigate,
				EstimatedCost: 8000,
				ResidualRisk:  15,
				Controls:      []string{"Certificate Renewal", "SSL/TLS Hardening", "Monitoring"},
			},
			{
				ID:            "3",
				Vulnerability: "Outdated WordPress Plugin",
				Probability:   4,
				Impact:        5,
				RiskScore:     20,
				RiskLevel:     types.RiskMedium,
				Strategy:      types.StrategyAccept,
				EstimatedCost: 2000,
				ResidualRisk:  18,
				Controls:      []string{"Plugin Updates", "Content Security Policy"},
			},
		},
		Consultations: []types.ConsultationEntry{
			{
				ID:          "1",
				Author:      "Sarah Johnson",
				Role:        "Security Analyst",
				Timestamp:   now.Add(-1 * time.Hour),
				Type:        types.EntryRecommendation,
				Content:     "Consider implementing multi-factor authentication for all administrative accounts before proceeding with the Apache server patch. This will provide an additional security layer during the maintenance window.",
				Priority:    types.PriorityHigh,
				RelatedRisk: "Apache HTTP Server RCE",
			},
			{
				ID:          "2",
				Author:      "Mike Chen",
				Role:        "IT Manager",
				Timestamp:   now.Add(-2 * time.Hour),
				Type:        types.EntryConcern,
				Content:     "The proposed downtime for the certificate renewal may impact our SLA commitments. Can we schedule this during the planned maintenance window next weekend?",
				Priority:    types.PriorityMedium,
				RelatedRisk: "OpenSSL Certificate Issue",
			},
			{
				ID:        "3",
				Author:    "Dr. Emily Rodriguez",
				Role:      "CISO",
				Timestamp: now.Add(-3 * time.Hour),
				Type:      types.EntryApproval,
				Content:   "Risk treatment strategies look comprehensive. Approve the budget allocation for critical and high-risk items. Please proceed with implementation phase.",
				Priority:  types.PriorityHigh,
			},
		},
	}
}
