// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// Asset is an inventory item rated along the CIA triad. Value is derived from
// the three ratings when the asset is created and is not recomputed later.
type Asset struct {
	ID              string        `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	Type            string        `json:"type" yaml:"type"`
	Confidentiality SeverityLevel `json:"confidentiality" yaml:"confidentiality"`
	Integrity       SeverityLevel `json:"integrity" yaml:"integrity"`
	Availability    SeverityLevel `json:"availability" yaml:"availability"`
	Value           int           `json:"value" yaml:"value"`
	Owner           string        `json:"owner" yaml:"owner"`
}

// Validate checks required fields and rating ranges.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("asset name is required", "name", a.Name)
	}
	if strings.TrimSpace(a.Type) == "" {
		return invalid("asset type is required", "type", a.Type)
	}
	if strings.TrimSpace(a.Owner) == "" {
		return invalid("asset owner is required", "owner", a.Owner)
	}
	if !a.Confidentiality.Valid() {
		return invalid("invalid confidentiality rating", "confidentiality", int(a.Confidentiality))
	}
	if !a.Integrity.Valid() {
		return invalid("invalid integrity rating", "integrity", int(a.Integrity))
	}
	if !a.Availability.Valid() {
		return invalid("invalid availability rating", "availability", int(a.Availability))
	}
	if a.Value < 0 {
		return invalid("asset value must not be negative", "value", a.Value)
	}
	return nil
}
