// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "github.com/m-mizutani/goerr/v2"

// Workspace is everything a single risk assessment session works on.
type Workspace struct {
	Assets        []Asset             `json:"assets" yaml:"assets"`
	Findings      []RiskCell          `json:"findings" yaml:"findings"`
	Treatments    []RiskTreatmentItem `json:"treatments" yaml:"treatments"`
	Consultations []ConsultationEntry `json:"consultations" yaml:"consultations"`
	Report        *ReportConfig       `json:"report,omitempty" yaml:"report,omitempty"`
}

// ReportConfig returns the workspace report config, or the default one.
func (w *Workspace) ReportConfig() ReportConfig {
	if w.Report == nil {
		return DefaultReportConfig()
	}
	cfg := *w.Report
	if cfg.Title == "" {
		cfg.Title = DefaultReportTitle
	}
	return cfg
}

// ApplyDefaults fills the optional consultation fields the same way new
// entries are filled.
func (w *Workspace) ApplyDefaults() {
	for i := range w.Consultations {
		w.Consultations[i].ApplyDefaults()
	}
}

// Validate validates every entity, reporting the first failure with its
// position in the document.
func (w *Workspace) Validate() error {
	for i := range w.Assets {
		if err := w.Assets[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid asset", goerr.V("index", i), goerr.T(ErrTagValidation))
		}
	}
	for i := range w.Findings {
		if err := w.Findings[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid finding", goerr.V("index", i), goerr.T(ErrTagValidation))
		}
	}
	for i := range w.Treatments {
		if err := w.Treatments[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid treatment", goerr.V("index", i), goerr.T(ErrTagValidation))
		}
	}
	for i := range w.Consultations {
		if err := w.Consultations[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid consultation entry", goerr.V("index", i), goerr.T(ErrTagValidation))
		}
	}
	if w.Report != nil {
		if err := w.Report.Validate(); err != nil {
			return goerr.Wrap(err, "invalid report config", goerr.T(ErrTagValidation))
		}
	}
	return nil
}

// Clone returns a deep copy of the workspace.
func (w Workspace) Clone() Workspace {
	out := Workspace{
		Assets:        append([]Asset(nil), w.Assets...),
		Findings:      make([]RiskCell, len(w.Findings)),
		Treatments:    make([]RiskTreatmentItem, len(w.Treatments)),
		Consultations: append([]ConsultationEntry(nil), w.Consultations...),
	}
	for i, f := range w.Findings {
		if f.Intel != nil {
			f.Intel = f.Intel.Clone()
		}
		out.Findings[i] = f
	}
	for i, t := range w.Treatments {
		t.Controls = append([]string(nil), t.Controls...)
		out.Treatments[i] = t
	}
	if w.Report != nil {
		r := *w.Report
		out.Report = &r
	}
	return out
}
