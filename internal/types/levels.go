// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// SeverityLevel is an ordinal rating used for the confidentiality, integrity
// and availability of an asset and for vulnerability severity.
// The zero value is not a valid level.
type SeverityLevel int

const (
	SeverityLow SeverityLevel = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// SeverityLevels lists all valid severity levels in ascending order.
var SeverityLevels = []SeverityLevel{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// RiskLevel is the ordinal risk bucket a finding or treatment item falls into.
// The zero value means "not set".
type RiskLevel int

const (
	RiskLow RiskLevel = iota + 1
	RiskMedium
	RiskHigh
	RiskCritical
)

// RiskLevels lists all valid risk levels in ascending order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

var levelNames = [...]string{"", "Low", "Medium", "High", "Critical"}

func levelName(n int) string {
	if n < 1 || n >= len(levelNames) {
		return ""
	}
	return levelNames[n]
}

func levelIndex(s string) int {
	s = strings.TrimSpace(s)
	for i := 1; i < len(levelNames); i++ {
		if strings.EqualFold(levelNames[i], s) {
			return i
		}
	}
	return 0
}

func (s SeverityLevel) String() string { return levelName(int(s)) }

// Valid reports whether s is one of the four defined levels.
func (s SeverityLevel) Valid() bool { return s >= SeverityLow && s <= SeverityCritical }

// ParseSeverityLevel parses a severity name case-insensitively.
func ParseSeverityLevel(s string) (SeverityLevel, error) {
	if i := levelIndex(s); i != 0 {
		return SeverityLevel(i), nil
	}
	return 0, invalid("unknown severity level", "severity", s)
}

func (s SeverityLevel) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, invalid("invalid severity level", "severity", int(s))
	}
	return []byte(s.String()), nil
}

func (s *SeverityLevel) UnmarshalText(text []byte) error {
	v, err := ParseSeverityLevel(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r RiskLevel) String() string { return levelName(int(r)) }

// Valid reports whether r is one of the four defined levels.
func (r RiskLevel) Valid() bool { return r >= RiskLow && r <= RiskCritical }

// ParseRiskLevel parses a risk level name case-insensitively. An empty string
// yields the unset level.
func ParseRiskLevel(s string) (RiskLevel, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	if i := levelIndex(s); i != 0 {
		return RiskLevel(i), nil
	}
	return 0, invalid("unknown risk level", "riskLevel", s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	if r == 0 {
		return []byte{}, nil
	}
	if !r.Valid() {
		return nil, invalid("invalid risk level", "riskLevel", int(r))
	}
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	v, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
