// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package workspace holds the mutable state of an assessment session.
package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// Store is a workspace guarded for concurrent use.
type Store struct {
	mu    sync.RWMutex
	ws    types.Workspace
	now   func() time.Time
	newID func() (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for consultation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the ID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a store seeded with a copy of ws. Missing asset values,
// treatment scores and consultation defaults are filled in.
func New(ws types.Workspace, opts ...Option) *Store {
	seed := ws.Clone()
	seed.ApplyDefaults()
	scoring.Derive(&seed)

	s := &Store{
		ws:    seed,
		now:   time.Now,
		newID: newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", goerr.Wrap(err, "generating id")
	}
	return id.String(), nil
}

// NewAsset is the input for AddAsset. Unset ratings default to Medium.
type NewAsset struct {
	Name            string              `json:"name"`
	Type            string              `json:"type"`
	Owner           string              `json:"owner"`
	Confidentiality types.SeverityLevel `json:"confidentiality"`
	Integrity       types.SeverityLevel `json:"integrity"`
	Availability    types.SeverityLevel `json:"availability"`
}

// AddAsset validates and stores a new asset. Its value is derived from the
// CIA ratings once, here.
func (s *Store) AddAsset(ctx context.Context, in NewAsset) (types.Asset, error) {
	asset := types.Asset{
		Name:            strings.TrimSpace(in.Name),
		Type:            strings.TrimSpace(in.Type),
		Owner:           strings.TrimSpace(in.Owner),
		Confidentiality: orMedium(in.Confidentiality),
		Integrity:       orMedium(in.Integrity),
		Availability:    orMedium(in.Availability),
	}
	asset.Value = scoring.AssetValue(asset.Confidentiality, asset.Integrity, asset.Availability)
	if err := asset.Validate(); err != nil {
		return types.Asset{}, err
	}

	id, err := s.newID()
	if err != nil {
		return types.Asset{}, err
	}
	asset.ID = id

	s.mu.Lock()
	s.ws.Assets = append(s.ws.Assets, asset)
	s.mu.Unlock()

	ctxlog.From(ctx).Info("asset added", "id", asset.ID, "name", asset.Name, "value", asset.Value)
	return asset, nil
}

func orMedium(s types.SeverityLevel) types.SeverityLevel {
	if s == 0 {
		return types.SeverityMedium
	}
	return s
}

// NewConsultation is the input for AddConsultation. Type defaults to Comment
// and Priority to Medium.
type NewConsultation struct {
	Author      string          `json:"author"`
	Role        string          `json:"role"`
	Type        types.EntryType `json:"type"`
	Content     string          `json:"content"`
	Priority    types.Priority  `json:"priority"`
	RelatedRisk string          `json:"relatedRisk"`
}

// AddConsultation validates and stores a new entry at the head of the
// thread.
func (s *Store) AddConsultation(ctx context.Context, in NewConsultation) (types.ConsultationEntry, error) {
	entry := types.ConsultationEntry{
		Author:      strings.TrimSpace(in.Author),
		Role:        strings.TrimSpace(in.Role),
		Type:        in.Type,
		Content:     strings.TrimSpace(in.Content),
		Priority:    in.Priority,
		RelatedRisk: strings.TrimSpace(in.RelatedRisk),
		Timestamp:   s.now(),
	}
	entry.ApplyDefaults()
	if err := entry.Validate(); err != nil {
		return types.ConsultationEntry{}, err
	}

	id, err := s.newID()
	if err != nil {
		return types.ConsultationEntry{}, err
	}
	entry.ID = id

	s.mu.Lock()
	s.ws.Consultations = append([]types.ConsultationEntry{entry}, s.ws.Consultations...)
	s.mu.Unlock()

	ctxlog.From(ctx).Info("consultation entry added",
		"id", entry.ID, "author", entry.Author, "type", entry.Type, "priority", entry.Priority)
	return entry, nil
}

// Filter selects consultation entries. Zero fields match everything.
type Filter struct {
	Type        types.EntryType
	Priority    types.Priority
	RelatedRisk string
}

func (f Filter) match(e types.ConsultationEntry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Priority != "" && e.Priority != f.Priority {
		return false
	}
	if f.RelatedRisk != "" && !strings.EqualFold(e.RelatedRisk, f.RelatedRisk) {
		return false
	}
	return true
}

// Consultations returns the entries matching f, newest first.
func (s *Store) Consultations(f Filter) []types.ConsultationEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.ConsultationEntry, 0, len(s.ws.Consultations))
	for _, e := range s.ws.Consultations {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// AddFinding validates and stores a matrix finding.
func (s *Store) AddFinding(ctx context.Context, cell types.RiskCell) error {
	if err := cell.Validate(); err != nil {
		return err
	}
	if cell.Intel != nil {
		cell.Intel = cell.Intel.Clone()
	}

	s.mu.Lock()
	s.ws.Findings = append(s.ws.Findings, cell)
	s.mu.Unlock()

	ctxlog.From(ctx).Debug("finding added",
		"label", cell.Label, "probability", cell.Probability, "impact", cell.Impact, "count", cell.Count)
	return nil
}

// AddTreatment validates and stores a treatment item, assigning an ID when
// it has none and deriving the risk score when it is zero.
func (s *Store) AddTreatment(ctx context.Context, item types.RiskTreatmentItem) (types.RiskTreatmentItem, error) {
	if err := item.Validate(); err != nil {
		return types.RiskTreatmentItem{}, err
	}
	if item.RiskScore == 0 {
		item.RiskScore = scoring.TreatmentScore(item.Probability, item.Impact)
	}
	if item.ID == "" {
		id, err := s.newID()
		if err != nil {
			return types.RiskTreatmentItem{}, err
		}
		item.ID = id
	}
	item.Controls = append([]string(nil), item.Controls...)

	s.mu.Lock()
	s.ws.Treatments = append(s.ws.Treatments, item)
	s.mu.Unlock()

	ctxlog.From(ctx).Info("treatment added", "id", item.ID, "vulnerability", item.Vulnerability)
	return item, nil
}

// SetReportConfig validates and replaces the report configuration.
func (s *Store) SetReportConfig(ctx context.Context, cfg types.ReportConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.ws.Report = &cfg
	s.mu.Unlock()

	ctxlog.From(ctx).Info("report config updated", "sections", len(cfg.Enabled()))
	return nil
}

// Snapshot returns a deep copy of the current workspace.
func (s *Store) Snapshot() types.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws.Clone()
}

// Assets returns a copy of the asset inventory.
func (s *Store) Assets() []types.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Asset{}, s.ws.Assets...)
}

// Asset returns the asset with the given ID.
func (s *Store) Asset(id string) (types.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.ws.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return types.Asset{}, false
}

// Treatments returns a copy of the treatment plan.
func (s *Store) Treatments() []types.RiskTreatmentItem {
	return s.Snapshot().Treatments
}
