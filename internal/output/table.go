// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

const maxContentWords = 16

// TableConfig controls which columns are displayed and how rows are sorted.
type TableConfig struct {
	ShowEPSS   bool
	ShowKEV    bool
	ShowRisk   bool   // true only when both EPSS and KEV enabled
	SortBy     string // "risk", "count", "label", "epss", "" (preserve order)
	IsTerminal bool   // true when output goes to a terminal (enables ANSI styling)

	// Now is used for relative consultation timestamps. Defaults to time.Now.
	Now func() time.Time
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// WriteTable writes an assessment as a sequence of report sections. Only the
// sections enabled in the report config are rendered; policy violations are
// always listed when present.
func WriteTable(w io.Writer, result *assessment.Result, cfg TableConfig) error {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	report := result.Report
	writeTitle(w, report.Title, cfg.IsTerminal)

	for _, section := range report.Enabled() {
		writeSectionHeader(w, section.Title(), cfg.IsTerminal)
		switch section {
		case types.SectionExecutiveSummary:
			writeExecutiveSummary(w, result, cfg)
		case types.SectionVulnerabilities:
			writeFindingTable(w, result.Findings, cfg)
		case types.SectionRiskMatrix:
			writeMatrix(w, result, cfg)
		case types.SectionAssetClassification:
			writeAssetTable(w, result.Assets, cfg)
		case types.SectionTreatmentPlan:
			writeTreatmentTable(w, result.Treatments, cfg)
		case types.SectionConsultation:
			writeConsultationTable(w, result.Consultations, cfg)
		case types.SectionMetrics:
			writeMetrics(w, result, cfg)
		}
	}

	if len(result.Violations) > 0 {
		writeSectionHeader(w, fmt.Sprintf("Policy Violations (Total: %d)", len(result.Violations)), cfg.IsTerminal)
		tw := newTableWriter(w, cfg.IsTerminal)
		tw.SetHeaders("Subject", "Rule", "Detail")
		for _, v := range result.Violations {
			tw.AddRow(v.Subject, v.Rule, v.Detail)
		}
		tw.Render()
	}

	return nil
}

func writeTitle(w io.Writer, title string, isTerminal bool) {
	if isTerminal {
		_ = tml.Fprintf(w, "<bold>%s</bold>\n", title)
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("#", utf8.RuneCountInString(title)))
}

// writeSectionHeader writes a section heading with formatting.
func writeSectionHeader(w io.Writer, title string, isTerminal bool) {
	fmt.Fprintln(w)
	if isTerminal {
		_ = tml.Fprintf(w, "<underline><bold>%s</bold></underline>\n", title)
	} else {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
	}
}

// newTableWriter creates a table writer with borders and row separators.
// Auto-merge stays off: identical adjacent counts are distinct findings.
// When isTerminal is true, header and line styles use ANSI formatting.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetRowLines(true)
	return tw
}

// levelSummary returns a line like:
// Total: 10 (LOW: 7, MEDIUM: 1, HIGH: 1, CRITICAL: 1)
func levelSummary(dist map[types.RiskLevel]int) string {
	var total int
	for _, n := range dist {
		total += n
	}
	return fmt.Sprintf("Total: %d (LOW: %d, MEDIUM: %d, HIGH: %d, CRITICAL: %d)",
		total, dist[types.RiskLow], dist[types.RiskMedium], dist[types.RiskHigh], dist[types.RiskCritical])
}

func writeExecutiveSummary(w io.Writer, result *assessment.Result, cfg TableConfig) {
	fmt.Fprintln(w, levelSummary(result.Distribution))
	fmt.Fprintln(w)

	s := result.Summary
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Metric", "Value")
	tw.AddRow("Assets", strconv.Itoa(s.Assets))
	tw.AddRow("Total asset value", formatMoney(float64(s.TotalAssetValue)))
	tw.AddRow("Findings", strconv.Itoa(s.Findings))
	tw.AddRow("Treatment items", strconv.Itoa(s.Treatments))
	tw.AddRow("Treatment cost", formatMoney(s.TotalCost))
	tw.AddRow("Residual risk score", fmt.Sprintf("%.1f", s.TotalResidual))
	tw.Render()
}

// findingRow holds a reference to a finding for table rendering.
type findingRow struct {
	finding *assessment.Finding
	index   int // original index for stable sort
}

func writeFindingTable(w io.Writer, findings []assessment.Finding, cfg TableConfig) {
	rows := make([]findingRow, len(findings))
	for i := range findings {
		rows[i] = findingRow{finding: &findings[i], index: i}
	}
	sortRows(rows, cfg.SortBy)

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders(findingHeaderNames(cfg)...)
	for _, row := range rows {
		tw.AddRow(findingRowCells(row.finding, cfg)...)
	}
	tw.Render()
}

// findingHeaderNames returns column header names based on config.
func findingHeaderNames(cfg TableConfig) []string {
	cols := []string{"Finding", "Level", "Probability", "Impact", "Score", "Count"}
	if cfg.ShowRisk {
		cols = append(cols, "Risk")
	}
	if cfg.ShowEPSS {
		cols = append(cols, "EPSS", "EPSS %ile")
	}
	if cfg.ShowKEV {
		cols = append(cols, "KEV")
	}
	return cols
}

// findingRowCells returns the cell values for a single finding row.
func findingRowCells(f *assessment.Finding, cfg TableConfig) []string {
	cols := []string{
		f.Label,
		formatLevel(f.Level, cfg.IsTerminal),
		axisLabel(types.ProbabilityLabels, f.Probability),
		axisLabel(types.ImpactLabels, f.Impact),
		strconv.Itoa(f.Score),
		strconv.Itoa(f.Count),
	}
	if cfg.ShowRisk {
		cols = append(cols, formatRisk(f.Intel))
	}
	if cfg.ShowEPSS {
		cols = append(cols, formatEPSSScore(f.Intel), formatEPSSPercentile(f.Intel))
	}
	if cfg.ShowKEV {
		cols = append(cols, formatKEV(f.Intel))
	}
	return cols
}

func axisLabel(labels [types.MatrixSize]string, idx int) string {
	if idx < 0 || idx >= types.MatrixSize {
		return strconv.Itoa(idx)
	}
	return labels[idx]
}

// writeMatrix renders the 5x5 grid with the highest probability on top.
func writeMatrix(w io.Writer, result *assessment.Result, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	headers := []string{"Probability \\ Impact"}
	headers = append(headers, types.ImpactLabels[:]...)
	tw.SetHeaders(headers...)

	for p := types.MatrixSize - 1; p >= 0; p-- {
		row := []string{types.ProbabilityLabels[p]}
		for i := 0; i < types.MatrixSize; i++ {
			cell := result.Matrix.Cell(p, i)
			row = append(row, formatMatrixCell(cell.Count, cell.Level, cfg.IsTerminal))
		}
		tw.AddRow(row...)
	}
	tw.Render()
}

func formatMatrixCell(count int, level types.RiskLevel, isTerminal bool) string {
	text := "-"
	if count > 0 {
		text = strconv.Itoa(count)
	}
	if isTerminal {
		if fn, ok := levelColors[level]; ok {
			return fn(text)
		}
	}
	return text
}

func writeAssetTable(w io.Writer, assets []types.Asset, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Asset", "Type", "Confidentiality", "Integrity", "Availability", "Value", "Owner")
	for _, a := range assets {
		tw.AddRow(
			a.Name,
			a.Type,
			formatSeverity(a.Confidentiality, cfg.IsTerminal),
			formatSeverity(a.Integrity, cfg.IsTerminal),
			formatSeverity(a.Availability, cfg.IsTerminal),
			formatMoney(float64(a.Value)),
			a.Owner,
		)
	}
	tw.Render()
}

func writeTreatmentTable(w io.Writer, treatments []assessment.Treatment, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Vulnerability", "Level", "Probability", "Impact", "Score", "Strategy", "Cost", "Residual", "Controls")
	for i := range treatments {
		t := &treatments[i]
		level := formatLevel(t.Level, cfg.IsTerminal)
		if t.DerivedLevel != t.Level {
			level += fmt.Sprintf("\n(derived: %s)", t.DerivedLevel)
		}
		tw.AddRow(
			t.Vulnerability,
			level,
			fmt.Sprintf("%d/10", t.Probability),
			fmt.Sprintf("%d/10", t.Impact),
			strconv.Itoa(t.RiskScore),
			formatStrategy(t.Strategy, cfg.IsTerminal),
			formatMoney(t.EstimatedCost),
			fmt.Sprintf("%d%% (%.1f)", t.ResidualRisk, t.ResidualScore),
			strings.Join(t.Controls, "\n"),
		)
	}
	tw.Render()
}

func writeConsultationTable(w io.Writer, entries []types.ConsultationEntry, cfg TableConfig) {
	now := cfg.Now()
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Author", "Type", "Priority", "Related Risk", "When", "Content")
	for _, e := range entries {
		author := e.Author
		if e.Role != "" {
			author += "\n" + e.Role
		}
		related := e.RelatedRisk
		if related == "" {
			related = "-"
		}
		tw.AddRow(
			author,
			string(e.Type),
			formatPriority(e.Priority, cfg.IsTerminal),
			related,
			FormatTimeAgo(now, e.Timestamp),
			truncateWords(e.Content, maxContentWords),
		)
	}
	tw.Render()
}

func writeMetrics(w io.Writer, result *assessment.Result, cfg TableConfig) {
	var highOrAbove, kev int
	for _, f := range result.Findings {
		if f.Level >= types.RiskHigh {
			highOrAbove += f.Count
		}
		if f.Intel.KEVListed() {
			kev++
		}
	}

	var inherent float64
	for _, t := range result.Treatments {
		inherent += float64(t.RiskScore)
	}
	reduction := "-"
	if inherent > 0 {
		reduction = fmt.Sprintf("%.1f%%", (1-result.Summary.TotalResidual/inherent)*100)
	}

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("KPI", "Value")
	tw.AddRow("Findings at High or above", strconv.Itoa(highOrAbove))
	tw.AddRow("KEV-listed findings", strconv.Itoa(kev))
	tw.AddRow("Inherent treatment risk", fmt.Sprintf("%.0f", inherent))
	tw.AddRow("Risk reduction after treatment", reduction)
	tw.AddRow("Consultation entries", strconv.Itoa(result.Summary.Consultations))
	tw.Render()
}

// FormatTimeAgo renders the age of t relative to now in whole hours or days.
func FormatTimeAgo(now, t time.Time) string {
	hours := int(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", hours/24)
	}
}

func formatMoney(v float64) string {
	return "$" + humanize.Comma(int64(v))
}

// levelColors maps risk levels to color functions.
var levelColors = map[types.RiskLevel]func(a ...any) string{
	types.RiskLow:      color.New(color.FgGreen).SprintFunc(),
	types.RiskMedium:   color.New(color.FgYellow).SprintFunc(),
	types.RiskHigh:     color.New(color.FgHiRed).SprintFunc(),
	types.RiskCritical: color.New(color.FgRed, color.Bold).SprintFunc(),
}

var strategyColors = map[types.Strategy]func(a ...any) string{
	types.StrategyMitigate: color.New(color.FgBlue).SprintFunc(),
	types.StrategyTransfer: color.New(color.FgMagenta).SprintFunc(),
	types.StrategyAccept:   color.New(color.FgGreen).SprintFunc(),
	types.StrategyAvoid:    color.New(color.FgRed).SprintFunc(),
}

var priorityColors = map[types.Priority]func(a ...any) string{
	types.PriorityLow:    color.New(color.FgGreen).SprintFunc(),
	types.PriorityMedium: color.New(color.FgYellow).SprintFunc(),
	types.PriorityHigh:   color.New(color.FgHiRed).SprintFunc(),
	types.PriorityUrgent: color.New(color.FgRed, color.Bold).SprintFunc(),
}

func formatLevel(l types.RiskLevel, isTerminal bool) string {
	if fn, ok := levelColors[l]; ok && isTerminal {
		return fn(l.String())
	}
	return l.String()
}

// formatSeverity colours a CIA rating with the palette of the matching level.
func formatSeverity(s types.SeverityLevel, isTerminal bool) string {
	return formatLevel(types.RiskLevel(s), isTerminal)
}

func formatStrategy(s types.Strategy, isTerminal bool) string {
	if fn, ok := strategyColors[s]; ok && isTerminal {
		return fn(string(s))
	}
	return string(s)
}

func formatPriority(p types.Priority, isTerminal bool) string {
	if fn, ok := priorityColors[p]; ok && isTerminal {
		return fn(string(p))
	}
	return string(p)
}

// sortRows sorts the finding rows based on the given sort key.
func sortRows(rows []findingRow, sortBy string) {
	switch sortBy {
	case "risk":
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].finding, rows[j].finding
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return riskValue(a.Intel) > riskValue(b.Intel)
		})
	case "count":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].finding.Count > rows[j].finding.Count
		})
	case "epss":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].finding.Intel.EPSSScore() > rows[j].finding.Intel.EPSSScore()
		})
	case "label":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].finding.Label < rows[j].finding.Label
		})
	default:
		// preserve original order
	}
}

// riskValue extracts the exploitation risk, returning 0 if nil.
func riskValue(intel *types.Intel) float64 {
	if intel != nil && intel.Risk != nil {
		return *intel.Risk
	}
	return 0
}

// truncateWords limits text to maxWords words, appending "..." if truncated.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// formatRisk formats the risk score or returns "-" if nil.
func formatRisk(intel *types.Intel) string {
	if intel != nil && intel.Risk != nil {
		return fmt.Sprintf("%.1f", *intel.Risk)
	}
	return "-"
}

// formatEPSSScore formats the EPSS score or returns "-" if nil.
func formatEPSSScore(intel *types.Intel) string {
	if intel != nil && intel.EPSS != nil && intel.EPSS.Score != nil {
		return fmt.Sprintf("%.2f", *intel.EPSS.Score)
	}
	return "-"
}

// formatEPSSPercentile formats the EPSS percentile (0-1 scaled to 0-100) or returns "-" if nil.
func formatEPSSPercentile(intel *types.Intel) string {
	if intel != nil && intel.EPSS != nil && intel.EPSS.Percentile != nil {
		return fmt.Sprintf("%.1f", *intel.EPSS.Percentile*100)
	}
	return "-"
}

// formatKEV returns "YES" if the finding is in the KEV catalog, "NO" otherwise.
func formatKEV(intel *types.Intel) string {
	if intel.KEVListed() {
		return "YES"
	}
	return "NO"
}
