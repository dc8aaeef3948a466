// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strings"
	"time"
)

// ConsultationEntry is a stakeholder comment in the consultation thread.
// RelatedRisk is free text and is not checked against any treatment item.
type ConsultationEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Author      string    `json:"author" yaml:"author"`
	Role        string    `json:"role,omitempty" yaml:"role,omitempty"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Type        EntryType `json:"type" yaml:"type"`
	Content     string    `json:"content" yaml:"content"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	RelatedRisk string    `json:"relatedRisk,omitempty" yaml:"relatedRisk,omitempty"`
}

// ApplyDefaults sets an empty Type to Comment and an empty Priority to
// Medium.
func (e *ConsultationEntry) ApplyDefaults() {
	if e.Type == "" {
		e.Type = EntryComment
	}
	if e.Priority == "" {
		e.Priority = PriorityMedium
	}
}

// Validate checks required fields and enumerations.
func (e *ConsultationEntry) Validate() error {
	if strings.TrimSpace(e.Author) == "" {
		return invalid("consultation author is required", "author", e.Author)
	}
	if strings.TrimSpace(e.Content) == "" {
		return invalid("consultation content is required", "content", e.Content)
	}
	if _, err := ParseEntryType(string(e.Type)); err != nil {
		return err
	}
	if _, err := ParsePriority(string(e.Priority)); err != nil {
		return err
	}
	return nil
}
