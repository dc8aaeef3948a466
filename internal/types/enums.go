// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// Strategy is the response category assigned to a risk.
type Strategy string

const (
	StrategyMitigate Strategy = "Mitigate"
	StrategyTransfer Strategy = "Transfer"
	StrategyAccept   Strategy = "Accept"
	StrategyAvoid    Strategy = "Avoid"
)

var strategies = []Strategy{StrategyMitigate, StrategyTransfer, StrategyAccept, StrategyAvoid}

// ParseStrategy parses a strategy name case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	for _, v := range strategies {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalid("unknown treatment strategy", "strategy", s)
}

// Description returns a one-line explanation of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyMitigate:
		return "Implement controls to reduce probability or impact"
	case StrategyTransfer:
		return "Transfer risk through insurance or outsourcing"
	case StrategyAccept:
		return "Accept the risk based on cost-benefit analysis"
	case StrategyAvoid:
		return "Eliminate the risk source or activity"
	default:
		return "Unknown strategy"
	}
}

func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// EntryType classifies a consultation entry.
type EntryType string

const (
	EntryComment        EntryType = "Comment"
	EntryRecommendation EntryType = "Recommendation"
	EntryApproval       EntryType = "Approval"
	EntryConcern        EntryType = "Concern"
)

var entryTypes = []EntryType{EntryComment, EntryRecommendation, EntryApproval, EntryConcern}

// ParseEntryType parses an entry type name case-insensitively.
func ParseEntryType(s string) (EntryType, error) {
	for _, v := range entryTypes {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalid("unknown consultation entry type", "type", s)
}

func (t *EntryType) UnmarshalText(text []byte) error {
	v, err := ParseEntryType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Priority is the urgency attached to a consultation entry.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for _, v := range priorities {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", invalid("unknown priority", "priority", s)
}

// Rank returns a numeric rank for sorting (higher = more urgent).
func (p Priority) Rank() int {
	for i, v := range priorities {
		if v == p {
			return i + 1
		}
	}
	return 0
}

func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
