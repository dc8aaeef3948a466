// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/scan"
	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
	"github.com/bonial-oss/sentinel-risk/internal/workspace"
)

// Scales accepted by POST /api/risk/calculate.
const (
	ScaleMatrix    = "matrix"
	ScaleTreatment = "treatment"
)

type calculateRequest struct {
	AssetID     string `json:"asset_id"`
	Probability int    `json:"probability"`
	Impact      int    `json:"impact"`
	Scale       string `json:"scale"`
}

type calculateResponse struct {
	AssetID string          `json:"asset_id"`
	Risk    int             `json:"risk"`
	Level   types.RiskLevel `json:"level"`
	Scale   string          `json:"scale"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp := calculateResponse{AssetID: req.AssetID, Scale: req.Scale}
	switch req.Scale {
	case "", ScaleMatrix:
		if err := checkRange(req.Probability, req.Impact, 0, types.MatrixSize-1); err != nil {
			writeError(w, r, err)
			return
		}
		resp.Scale = ScaleMatrix
		resp.Risk = scoring.MatrixScore(req.Probability, req.Impact)
		resp.Level = scoring.ClassifyByProduct(req.Probability, req.Impact)
	case ScaleTreatment:
		if err := checkRange(req.Probability, req.Impact, types.TreatmentScaleMin, types.TreatmentScaleMax); err != nil {
			writeError(w, r, err)
			return
		}
		resp.Risk = scoring.TreatmentScore(req.Probability, req.Impact)
		resp.Level = scoring.ClassifyByScaledProduct(req.Probability, req.Impact)
	default:
		writeError(w, r, goerr.New("unknown scale",
			goerr.V("scale", req.Scale),
			goerr.T(types.ErrTagValidation)))
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func checkRange(probability, impact, lo, hi int) error {
	if probability < lo || probability > hi {
		return goerr.New("probability out of range",
			goerr.V("probability", probability), goerr.V("min", lo), goerr.V("max", hi),
			goerr.T(types.ErrTagValidation))
	}
	if impact < lo || impact > hi {
		return goerr.New("impact out of range",
			goerr.V("impact", impact), goerr.V("min", lo), goerr.V("max", hi),
			goerr.T(types.ErrTagValidation))
	}
	return nil
}

type overviewResponse struct {
	Total        int                     `json:"total"`
	Distribution map[types.RiskLevel]int `json:"distribution"`
	Matrix       scoring.Matrix          `json:"matrix"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	findings := s.store.Snapshot().Findings
	m := scoring.BuildMatrix(findings)
	writeJSON(w, r, http.StatusOK, overviewResponse{
		Total:        m.Total(),
		Distribution: scoring.Distribution(findings),
		Matrix:       m,
	})
}

type residualItem struct {
	ID            string  `json:"id"`
	Vulnerability string  `json:"vulnerability"`
	RiskScore     int     `json:"risk_score"`
	ResidualRisk  int     `json:"residual_risk"`
	ResidualScore float64 `json:"residual_score"`
}

type residualResponse struct {
	Items         []residualItem `json:"items"`
	TotalResidual float64        `json:"total_residual"`
}

func (s *Server) handleResidual(w http.ResponseWriter, r *http.Request) {
	resp := residualResponse{Items: []residualItem{}}
	for _, item := range s.store.Treatments() {
		score := item.RiskScore
		if score == 0 {
			score = scoring.TreatmentScore(item.Probability, item.Impact)
		}
		residual := scoring.ResidualScore(item)
		resp.Items = append(resp.Items, residualItem{
			ID:            item.ID,
			Vulnerability: item.Vulnerability,
			RiskScore:     score,
			ResidualRisk:  item.ResidualRisk,
			ResidualScore: residual,
		})
		resp.TotalResidual += residual
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.store.Assets())
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req workspace.NewAsset
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	asset, err := s.store.AddAsset(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, asset)
}

func (s *Server) handleAddFinding(w http.ResponseWriter, r *http.Request) {
	var cell types.RiskCell
	if err := decodeBody(r, &cell); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.AddFinding(r.Context(), cell); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cell)
}

func (s *Server) handleListTreatments(w http.ResponseWriter, r *http.Request) {
	result, err := s.assessor.Assess(r.Context(), s.store.Snapshot(), assessment.Config{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result.Treatments)
}

func (s *Server) handleAddTreatment(w http.ResponseWriter, r *http.Request) {
	var item types.RiskTreatmentItem
	if err := decodeBody(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.store.AddTreatment(r.Context(), item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f workspace.Filter
	if v := q.Get("type"); v != "" {
		t, err := types.ParseEntryType(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		f.Type = t
	}
	if v := q.Get("priority"); v != "" {
		p, err := types.ParsePriority(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		f.Priority = p
	}
	f.RelatedRisk = q.Get("related_risk")

	writeJSON(w, r, http.StatusOK, s.store.Consultations(f))
}

func (s *Server) handleAddConsultation(w http.ResponseWriter, r *http.Request) {
	var req workspace.NewConsultation
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.store.AddConsultation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ws := s.store.Snapshot()
	writeJSON(w, r, http.StatusOK, ws.ReportConfig())
}

func (s *Server) handleSetReport(w http.ResponseWriter, r *http.Request) {
	var cfg types.ReportConfig
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.SetReportConfig(r.Context(), cfg); err != nil {
		writeError(w, r, err)
		return
	}
	ws := s.store.Snapshot()
	writeJSON(w, r, http.StatusOK, ws.ReportConfig())
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	cfg := s.config
	if v := r.URL.Query().Get("min_level"); v != "" {
		level, err := types.ParseRiskLevel(v)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid min_level", goerr.T(types.ErrTagValidation)))
			return
		}
		cfg.MinLevel = level
	}
	result, err := s.assessor.Assess(r.Context(), s.store.Snapshot(), cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

type scanRequest struct {
	IP string `json:"ip"`
}

type scanStatusResponse struct {
	ScanID   string      `json:"scan_id"`
	Status   scan.Status `json:"status"`
	Progress int         `json:"progress"`
	Error    string      `json:"error,omitempty"`
}

type scanResultResponse struct {
	ScanID string       `json:"scan_id"`
	Status scan.Status  `json:"status"`
	Result *scan.Result `json:"result"`
}

// handleStartScan starts a background scan and answers 202 with its id.
func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	job, err := s.scans.Start(r.Context(), req.IP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, scanStatusResponse{ScanID: job.ID, Status: job.Status})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.scans.Get(chi.URLParam(r, "scanID"))
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "scan not found"})
		return
	}
	writeJSON(w, r, http.StatusOK, scanStatusResponse{
		ScanID:   job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.Error,
	})
}

// handleScanResult returns the scan result, null until the scan completes.
func (s *Server) handleScanResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.scans.Get(chi.URLParam(r, "scanID"))
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "scan not found"})
		return
	}
	writeJSON(w, r, http.StatusOK, scanResultResponse{ScanID: job.ID, Status: job.Status, Result: job.Result})
}
