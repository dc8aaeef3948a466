// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonial-oss/sentinel-risk/internal/types"
)

func TestParse_JSON(t *testing.T) {
	data := []byte(`  {
		"assets": [
			{
				"id": "1",
				"name": "Web Server",
				"type": "Server",
				"confidentiality": "High",
				"integrity": "Critical",
				"availability": "High",
				"value": 95000,
				"owner": "IT Department"
			}
		],
		"findings": [
			{"probability": 4, "impact": 4, "label": "CVE-2023-4567", "count": 1}
		],
		"treatments": [
			{
				"id": "1",
				"vulnerability": "Apache HTTP Server RCE",
				"probability": 8,
				"impact": 9,
				"riskScore": 72,
				"riskLevel": "Critical",
				"recommendedStrategy": "Mitigate",
				"estimatedCost": 15000,
				"residualRisk": 20,
				"controls": ["Patch Management"]
			}
		],
		"consultations": []
	}`)

	result, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, result.Format)
	ws := result.Workspace
	require.Len(t, ws.Assets, 1)
	assert.Equal(t, types.SeverityCritical, ws.Assets[0].Integrity)
	require.Len(t, ws.Findings, 1)
	assert.Equal(t, "CVE-2023-4567", ws.Findings[0].Label)
	require.Len(t, ws.Treatments, 1)
	assert.Equal(t, types.RiskCritical, ws.Treatments[0].RiskLevel)
	assert.Equal(t, types.StrategyMitigate, ws.Treatments[0].Strategy)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
assets:
  - name: Customer Database
    type: Database
    confidentiality: critical
    integrity: Critical
    availability: high
    owner: Data Management Team
findings:
  - probability: 3
    impact: 1
    label: Minor Issues
    count: 5
treatments:
  - vulnerability: Outdated WordPress Plugin
    probability: 4
    impact: 5
    recommendedStrategy: accept
consultations:
  - author: Mike Chen
    role: IT Manager
    timestamp: 2026-03-01T10:00:00Z
    type: Concern
    content: Can we schedule this next weekend?
    priority: Medium
report:
  title: Quarterly Review
  includeRiskMatrix: true
  recipientEmail: ciso@example.com
`)

	result, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, result.Format)
	ws := result.Workspace
	require.Len(t, ws.Assets, 1)
	assert.Equal(t, types.SeverityCritical, ws.Assets[0].Confidentiality)
	assert.Equal(t, types.SeverityHigh, ws.Assets[0].Availability)
	assert.Equal(t, 110000, ws.Assets[0].Value, "omitted value is derived from the ratings")
	require.Len(t, ws.Treatments, 1)
	assert.Equal(t, types.StrategyAccept, ws.Treatments[0].Strategy)
	assert.Equal(t, 20, ws.Treatments[0].RiskScore, "omitted score is probability × impact")
	assert.Zero(t, ws.Treatments[0].RiskLevel)
	require.Len(t, ws.Consultations, 1)
	assert.Equal(t, types.EntryConcern, ws.Consultations[0].Type)
	require.NotNil(t, ws.Report)
	assert.Equal(t, "Quarterly Review", ws.Report.Title)
	assert.True(t, ws.Report.IncludeRiskMatrix)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"malformed JSON", `{"assets": [`},
		{"unknown JSON field", `{"assetz": []}`},
		{"unknown YAML field", "findingz: []\n"},
		{"unknown level", `{"assets": [{"name": "a", "type": "b", "owner": "c", "confidentiality": "Extreme", "integrity": "Low", "availability": "Low"}]}`},
		{"unknown strategy", "treatments:\n  - vulnerability: x\n    probability: 1\n    impact: 1\n    recommendedStrategy: Ignore\n"},
		{"out of range finding", `{"findings": [{"probability": 5, "impact": 0, "count": 1}]}`},
		{"missing author", "consultations:\n  - content: hello\n    type: Comment\n    priority: Low\n"},
		{"unknown entry type", "consultations:\n  - author: a\n    content: hello\n    type: Rant\n"},
		{"mismatched risk score", "treatments:\n  - vulnerability: x\n    probability: 2\n    impact: 3\n    riskScore: 90\n    recommendedStrategy: Mitigate\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, types.IsValidation(err))
		})
	}
}

func TestParse_KeepsSuppliedValues(t *testing.T) {
	data := []byte(`{
  "assets": [{"name": "Web Server", "type": "Server", "owner": "IT",
    "confidentiality": "High", "integrity": "Critical", "availability": "High", "value": 95000}],
  "treatments": [{"vulnerability": "Apache HTTP Server RCE", "probability": 8, "impact": 9,
    "riskScore": 72, "recommendedStrategy": "Mitigate", "residualRisk": 20}]
}`)

	result, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 95000, result.Workspace.Assets[0].Value)
	assert.Equal(t, 72, result.Workspace.Treatments[0].RiskScore)
}

func TestParse_ConsultationDefaults(t *testing.T) {
	data := []byte(`
consultations:
  - author: Alex Kim
    timestamp: 2026-03-01T10:00:00Z
    content: Patch on Saturday.
  - author: Sarah Johnson
    timestamp: 2026-03-01T09:00:00Z
    content: Approved.
    type: approval
    priority: high
`)

	result, err := Parse(data)
	require.NoError(t, err)
	entries := result.Workspace.Consultations
	require.Len(t, entries, 2)
	assert.Equal(t, types.EntryComment, entries[0].Type)
	assert.Equal(t, types.PriorityMedium, entries[0].Priority)
	assert.Equal(t, types.EntryApproval, entries[1].Type)
	assert.Equal(t, types.PriorityHigh, entries[1].Priority)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect([]byte("\n  {}")))
	assert.Equal(t, FormatYAML, Detect([]byte("assets: []")))
	assert.Equal(t, FormatYAML, Detect([]byte("- a")))
	assert.Equal(t, "yaml", FormatYAML.String())
}
