// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/types"
	"github.com/bonial-oss/sentinel-risk/internal/workspace"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Helper to create a float64 pointer.
func floatPtr(v float64) *float64 {
	return &v
}

// makeTestResult assesses the demo workspace with intel attached to the
// first two findings.
func makeTestResult(t *testing.T) *assessment.Result {
	t.Helper()
	ws := workspace.DemoAt(fixedNow)
	ws.Findings[0].Intel = &types.Intel{
		Risk: floatPtr(99.0),
		EPSS: &types.EPSSData{Score: floatPtr(0.97), Percentile: floatPtr(0.998)},
		KEV:  &types.KEVData{Listed: true},
	}
	ws.Findings[1].Intel = &types.Intel{
		Risk: floatPtr(31.5),
		EPSS: &types.EPSSData{Score: floatPtr(0.42), Percentile: floatPtr(0.873)},
		KEV:  &types.KEVData{Listed: false},
	}
	result, err := assessment.New(nil, nil).Assess(context.Background(), ws, assessment.Config{})
	require.NoError(t, err)
	return result
}

func onlySections(result *assessment.Result, sections ...types.Section) {
	cfg := types.ReportConfig{Title: "Test Report"}
	for _, s := range sections {
		cfg.Set(s, true)
	}
	result.Report = cfg
}

func render(t *testing.T, result *assessment.Result, cfg TableConfig) string {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, result, cfg))
	return buf.String()
}

func TestTableOutput_DefaultSections(t *testing.T) {
	output := render(t, makeTestResult(t), TableConfig{})

	assert.Contains(t, output, types.DefaultReportTitle)
	for _, title := range []string{"Executive Summary", "Vulnerability Analysis", "Risk Matrix",
		"Asset Classification", "Risk Treatment Plan", "Metrics & KPIs"} {
		assert.Contains(t, output, title)
	}
	assert.NotContains(t, output, "Stakeholder Consultation")
	assert.Contains(t, output, "===")

	// Verify box-drawing characters.
	for _, ch := range []string{"┌", "┘", "│", "├"} {
		assert.Contains(t, output, ch)
	}

	assertOrder(t, output, "Executive Summary", "Vulnerability Analysis", "Risk Matrix",
		"Asset Classification", "Risk Treatment Plan", "Metrics & KPIs")
}

func TestTableOutput_ExecutiveSummary(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionExecutiveSummary)
	output := render(t, result, TableConfig{})

	assert.Contains(t, output, "Total: 10 (LOW: 7, MEDIUM: 1, HIGH: 1, CRITICAL: 1)")
	assert.Contains(t, output, "$345,000")
	assert.Contains(t, output, "$25,000")
	assert.Contains(t, output, "24.3")
}

func TestTableOutput_FindingColumns(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)

	output := render(t, result, TableConfig{ShowEPSS: true, ShowKEV: true, ShowRisk: true})
	for _, col := range []string{"Finding", "Level", "Probability", "Impact", "Score", "Count", "Risk", "EPSS", "EPSS %ile", "KEV"} {
		assert.Contains(t, output, col)
	}
	for _, expected := range []string{"CVE-2023-4567", "Critical", "Very High", "Severe", "99.0", "0.97", "99.8", "YES"} {
		assert.Contains(t, output, expected)
	}

	output = render(t, result, TableConfig{ShowKEV: true})
	assert.NotContains(t, output, "EPSS")
	assert.NotContains(t, output, "Risk")
	assert.Contains(t, output, "KEV")
}

func TestTableOutput_SortByRisk(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{SortBy: "risk"})

	// Scores 16, 9, 4, 3, 3; equal scores keep their order.
	assertOrder(t, output, "CVE-2023-4567", "CVE-2023-1234", "CVE-2023-8901", "Network Config", "Minor Issues")
}

func TestTableOutput_SortByCount(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{SortBy: "count"})

	assertOrder(t, output, "Minor Issues", "Network Config", "CVE-2023-4567")
}

func TestTableOutput_SortByLabel(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{SortBy: "label"})

	assertOrder(t, output, "CVE-2023-1234", "CVE-2023-4567", "CVE-2023-8901", "Minor Issues", "Network Config")
}

func TestTableOutput_SortByEPSS(t *testing.T) {
	result := makeTestResult(t)
	result.Findings[0].Intel.EPSS.Score = floatPtr(0.1)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{SortBy: "epss"})

	assertOrder(t, output, "CVE-2023-1234", "CVE-2023-4567", "CVE-2023-8901")
}

func TestTableOutput_PreserveOrder(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{})

	assertOrder(t, output, "CVE-2023-4567", "CVE-2023-1234", "CVE-2023-8901", "Network Config", "Minor Issues")
}

func TestTableOutput_Matrix(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionRiskMatrix)
	output := render(t, result, TableConfig{})

	assert.Contains(t, output, "Probability \\ Impact")
	for _, label := range types.ImpactLabels {
		assert.Contains(t, output, label)
	}
	// Highest probability is the first row.
	assertOrder(t, output, "│ Very High", "│ High", "│ Medium", "│ Low", "│ Very Low")

	var high string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "│ High ") {
			high = line
		}
	}
	require.NotEmpty(t, high)
	assert.Contains(t, high, "5", "Minor Issues sit at (3,1)")
}

func TestTableOutput_Assets(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionAssetClassification)
	output := render(t, result, TableConfig{})

	for _, expected := range []string{"Web Server", "Customer Database", "$95,000", "$250,000", "Data Management Team"} {
		assert.Contains(t, output, expected)
	}
}

func TestTableOutput_Treatments(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionTreatmentPlan)
	output := render(t, result, TableConfig{})

	for _, expected := range []string{"Apache HTTP Server RCE", "8/10", "Mitigate", "$15,000", "20% (14.4)", "Patch Management"} {
		assert.Contains(t, output, expected)
	}
	// The supplied Critical differs from the derived High.
	assert.Contains(t, output, "(derived: High)")
}

func TestTableOutput_Consultation(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionConsultation)
	output := render(t, result, TableConfig{})

	assert.Contains(t, output, "Stakeholder Consultation")
	assertOrder(t, output, "Sarah Johnson", "Mike Chen", "Dr. Emily Rodriguez")
	assert.Contains(t, output, "1h ago")
	assert.Contains(t, output, "3h ago")
	assert.Contains(t, output, "...")
}

func TestTableOutput_Metrics(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionMetrics)
	output := render(t, result, TableConfig{})

	assert.Contains(t, output, "Findings at High or above")
	// (1 - 24.3/134) * 100
	assert.Contains(t, output, "81.9%")
}

func TestTableOutput_Violations(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result)
	result.Violations = []assessment.Violation{{Subject: "CVE-2023-4567", Rule: "fail-on-kev", Detail: "listed"}}
	output := render(t, result, TableConfig{})

	assert.Contains(t, output, "Policy Violations (Total: 1)")
	assert.Contains(t, output, "fail-on-kev")
}

func TestTableOutput_NoViolationSection(t *testing.T) {
	output := render(t, makeTestResult(t), TableConfig{})
	assert.NotContains(t, output, "Policy Violations")
}

func TestTableOutput_TerminalColors(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{IsTerminal: true})

	assert.Contains(t, output, "\x1b[")
	assert.NotContains(t, output, "===")
}

func TestTableOutput_RowSeparators(t *testing.T) {
	result := makeTestResult(t)
	onlySections(result, types.SectionVulnerabilities)
	output := render(t, result, TableConfig{})

	// 1 header separator + 4 row separators.
	assert.GreaterOrEqual(t, strings.Count(output, "├"), 5)
}

func TestFormatTimeAgo(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Minute, "Just now"},
		{time.Hour, "1h ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{75 * time.Hour, "3d ago"},
		{-time.Hour, "Just now"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimeAgo(fixedNow, fixedNow.Add(-tt.age)), "age=%s", tt.age)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0", formatMoney(0))
	assert.Equal(t, "$15,000", formatMoney(15000))
	assert.Equal(t, "$1,234,567", formatMoney(1234567.8))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b c", truncateWords("a b c", 3))
	assert.Equal(t, "a b...", truncateWords("a b c", 2))
}

// assertOrder verifies that the given strings appear in order in the output.
func assertOrder(t *testing.T, output string, items ...string) {
	t.Helper()
	prev := -1
	for _, item := range items {
		idx := strings.Index(output[prev+1:], item)
		require.NotEqual(t, -1, idx, "missing %q in output after position %d", item, prev)
		prev += idx + 1
	}
}
