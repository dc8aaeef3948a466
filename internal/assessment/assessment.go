// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package assessment turns a workspace into a scored, filtered and
// policy-checked risk assessment.
package assessment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/bonial-oss/sentinel-risk/internal/datasource/epss"
	"github.com/bonial-oss/sentinel-risk/internal/datasource/kev"
	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

var cvePattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)

// Assessor scores workspaces, attaching EPSS and KEV data to CVE findings.
type Assessor struct {
	epss *epss.Source
	kev  *kev.Source
}

// Config holds filtering and policy options.
type Config struct {
	MinLevel            types.RiskLevel
	EPSSThreshold       float64
	KEVOnly             bool
	FailOnLevel         types.RiskLevel
	FailOnKEV           bool
	FailOnEPSSThreshold float64
}

// Finding is a matrix finding with its score and level.
type Finding struct {
	types.RiskCell `yaml:",inline"`
	Score          int             `json:"score" yaml:"score"`
	Level          types.RiskLevel `json:"level" yaml:"level"`
}

// Treatment is a treatment item with its resolved and derived levels.
// DerivedLevel differs from Level when a supplied literal disagrees with the
// probability and impact.
type Treatment struct {
	types.RiskTreatmentItem `yaml:",inline"`
	Level                   types.RiskLevel `json:"level" yaml:"level"`
	DerivedLevel            types.RiskLevel `json:"derivedLevel" yaml:"derivedLevel"`
	ResidualScore           float64         `json:"residualScore" yaml:"residualScore"`
}

// Summary holds the aggregate figures of an assessment.
type Summary struct {
	Assets          int     `json:"assets" yaml:"assets"`
	TotalAssetValue int     `json:"totalAssetValue" yaml:"totalAssetValue"`
	Findings        int     `json:"findings" yaml:"findings"`
	KEVListed       int     `json:"kevListed" yaml:"kevListed"`
	Treatments      int     `json:"treatments" yaml:"treatments"`
	TotalCost       float64 `json:"totalCost" yaml:"totalCost"`
	TotalResidual   float64 `json:"totalResidual" yaml:"totalResidual"`
	Consultations   int     `json:"consultations" yaml:"consultations"`
}

// Violation names a subject that breaks a policy rule.
type Violation struct {
	Subject string `json:"subject" yaml:"subject"`
	Rule    string `json:"rule" yaml:"rule"`
	Detail  string `json:"detail" yaml:"detail"`
}

// Result is a complete assessment.
type Result struct {
	Report          types.ReportConfig        `json:"report" yaml:"report"`
	Assets          []types.Asset             `json:"assets" yaml:"assets"`
	Findings        []Finding                 `json:"findings" yaml:"findings"`
	Treatments      []Treatment               `json:"treatments" yaml:"treatments"`
	Consultations   []types.ConsultationEntry `json:"consultations" yaml:"consultations"`
	Matrix          scoring.Matrix            `json:"matrix" yaml:"matrix"`
	Distribution    map[types.RiskLevel]int   `json:"distribution" yaml:"distribution"`
	Summary         Summary                   `json:"summary" yaml:"summary"`
	Violations      []Violation               `json:"violations,omitempty" yaml:"violations,omitempty"`
	PolicyViolation bool                      `json:"policyViolation" yaml:"policyViolation"`
}

// New creates an Assessor. Either source may be nil if disabled.
func New(epssSource *epss.Source, kevSource *kev.Source) *Assessor {
	return &Assessor{
		epss: epssSource,
		kev:  kevSource,
	}
}

// Assess validates ws and builds the assessment. The workspace is not
// modified.
func (a *Assessor) Assess(ctx context.Context, ws types.Workspace, cfg Config) (*Result, error) {
	ws = ws.Clone()
	ws.ApplyDefaults()
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.From(ctx)

	// Step 1: asset values and treatment scores are derived only when missing.
	scoring.Derive(&ws)

	// Step 2: score findings and attach threat intel.
	findings := make([]Finding, 0, len(ws.Findings))
	for _, cell := range ws.Findings {
		f := Finding{
			RiskCell: cell,
			Score:    scoring.MatrixScore(cell.Probability, cell.Impact),
			Level:    scoring.ClassifyByProduct(cell.Probability, cell.Impact),
		}
		if intel := a.lookup(cell.Label, f.Level); intel != nil {
			f.Intel = intel
		}
		findings = append(findings, f)
	}

	// Step 3: resolve treatment levels.
	treatments := make([]Treatment, 0, len(ws.Treatments))
	for _, item := range ws.Treatments {
		t := Treatment{
			RiskTreatmentItem: item,
			Level:             scoring.ResolveTreatmentLevel(item),
			DerivedLevel:      scoring.ClassifyByScaledProduct(item.Probability, item.Impact),
			ResidualScore:     scoring.ResidualScore(item),
		}
		if t.Level != t.DerivedLevel {
			logger.Debug("treatment level differs from derived level",
				"vulnerability", item.Vulnerability, "level", t.Level, "derived", t.DerivedLevel)
		}
		treatments = append(treatments, t)
	}

	// Step 4: apply filters.
	findings = filterFindings(findings, cfg)
	if cfg.MinLevel.Valid() {
		kept := make([]Treatment, 0, len(treatments))
		for _, t := range treatments {
			if t.Level >= cfg.MinLevel {
				kept = append(kept, t)
			}
		}
		treatments = kept
	}

	// Step 5: aggregate.
	cells := make([]types.RiskCell, len(findings))
	for i, f := range findings {
		cells[i] = f.RiskCell
	}
	result := &Result{
		Report:        ws.ReportConfig(),
		Assets:        ws.Assets,
		Findings:      findings,
		Treatments:    treatments,
		Consultations: ws.Consultations,
		Matrix:        scoring.BuildMatrix(cells),
		Distribution:  scoring.Distribution(cells),
		Summary:       summarize(ws.Assets, findings, treatments, len(ws.Consultations)),
	}

	// Step 6: check policy violations (don't remove, just flag).
	result.Violations = checkPolicy(findings, treatments, cfg)
	result.PolicyViolation = len(result.Violations) > 0

	logger.Info("assessment complete",
		"findings", result.Summary.Findings,
		"treatments", result.Summary.Treatments,
		"violations", len(result.Violations))

	return result, nil
}

// lookup builds the threat intel for a CVE label. It returns nil when the
// label is not a CVE id or no source is enabled.
func (a *Assessor) lookup(label string, level types.RiskLevel) *types.Intel {
	cveID := strings.ToUpper(strings.TrimSpace(label))
	if !cvePattern.MatchString(cveID) {
		return nil
	}
	epssEnabled := a.epss != nil
	kevEnabled := a.kev != nil
	if !epssEnabled && !kevEnabled {
		return nil
	}

	intel := &types.Intel{}
	var epssEntry *types.EPSSEntry
	var kevEntry *types.KEVEntry

	if epssEnabled {
		epssEntry = a.epss.Lookup(cveID)
		intel.EPSS = &types.EPSSData{
			ModelVersion: a.epss.ModelVersion(),
			ScoreDate:    a.epss.ScoreDate(),
		}
		if epssEntry != nil {
			score := epssEntry.Score
			percentile := epssEntry.Percentile
			intel.EPSS.Score = &score
			intel.EPSS.Percentile = &percentile
		}
	}

	if kevEnabled {
		kevEntry = a.kev.Lookup(cveID)
		intel.KEV = &types.KEVData{Listed: false}
		if kevEntry != nil {
			intel.KEV = &types.KEVData{
				Listed:                     true,
				DateAdded:                  kevEntry.DateAdded,
				DueDate:                    kevEntry.DueDate,
				KnownRansomwareCampaignUse: kevEntry.KnownRansomwareCampaignUse,
				VendorProject:              kevEntry.VendorProject,
				Product:                    kevEntry.Product,
			}
		}
	}

	if epssEnabled && kevEnabled {
		r := ExploitRisk(epssEntry, kevEntry, level)
		intel.Risk = &r
	}
	return intel
}

func filterFindings(findings []Finding, cfg Config) []Finding {
	if !cfg.MinLevel.Valid() && cfg.EPSSThreshold <= 0 && !cfg.KEVOnly {
		return findings
	}
	filtered := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if cfg.MinLevel.Valid() && f.Level < cfg.MinLevel {
			continue
		}
		if cfg.EPSSThreshold > 0 && f.Intel.EPSSScore() < cfg.EPSSThreshold {
			continue
		}
		if cfg.KEVOnly && !f.Intel.KEVListed() {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

func summarize(assets []types.Asset, findings []Finding, treatments []Treatment, consultations int) Summary {
	s := Summary{
		Assets:        len(assets),
		Treatments:    len(treatments),
		Consultations: consultations,
	}
	for _, a := range assets {
		s.TotalAssetValue += a.Value
	}
	for _, f := range findings {
		s.Findings += f.Count
		if f.Intel.KEVListed() {
			s.KEVListed++
		}
	}
	for _, t := range treatments {
		s.TotalCost += t.EstimatedCost
		s.TotalResidual += t.ResidualScore
	}
	return s
}

func checkPolicy(findings []Finding, treatments []Treatment, cfg Config) []Violation {
	var out []Violation
	for _, f := range findings {
		if f.Count <= 0 {
			continue
		}
		subject := findingSubject(f)
		if cfg.FailOnLevel.Valid() && f.Level >= cfg.FailOnLevel {
			out = append(out, Violation{
				Subject: subject,
				Rule:    "fail-on-level",
				Detail:  fmt.Sprintf("finding level %s is at or above %s", f.Level, cfg.FailOnLevel),
			})
		}
		if cfg.FailOnKEV && f.Intel.KEVListed() {
			out = append(out, Violation{
				Subject: subject,
				Rule:    "fail-on-kev",
				Detail:  "listed in the CISA KEV catalog",
			})
		}
		if cfg.FailOnEPSSThreshold > 0 && f.Intel.EPSSScore() >= cfg.FailOnEPSSThreshold {
			out = append(out, Violation{
				Subject: subject,
				Rule:    "fail-on-epss",
				Detail:  fmt.Sprintf("EPSS score %.4f is at or above %.4f", f.Intel.EPSSScore(), cfg.FailOnEPSSThreshold),
			})
		}
	}
	if cfg.FailOnLevel.Valid() {
		for _, t := range treatments {
			if t.Level >= cfg.FailOnLevel {
				out = append(out, Violation{
					Subject: t.Vulnerability,
					Rule:    "fail-on-level",
					Detail:  fmt.Sprintf("treatment level %s is at or above %s", t.Level, cfg.FailOnLevel),
				})
			}
		}
	}
	return out
}

func findingSubject(f Finding) string {
	if f.Label != "" {
		return f.Label
	}
	return fmt.Sprintf("cell (%d,%d)", f.Probability, f.Impact)
}
