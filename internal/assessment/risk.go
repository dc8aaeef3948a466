// SPDX-FileCopyrightText: 2025 Anchore, Inc.
// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Exploitation risk calculation based on the formula from Grype
// (https://github.com/anchore/grype), licensed under Apache-2.0.

package assessment

import (
	"math"
	"strings"

	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// ExploitRisk computes a composite exploitation risk (0.0–100.0) for a
// finding from its EPSS entry, KEV entry and matrix level.
func ExploitRisk(epss *types.EPSSEntry, kev *types.KEVEntry, level types.RiskLevel) float64 {
	t := threat(epss, kev)
	s := levelScore(level)
	k := kevModifier(kev)
	return math.Min(t*s*k, 1.0) * 100.0
}

func threat(epss *types.EPSSEntry, kev *types.KEVEntry) float64 {
	if kev != nil {
		return 1.0
	}
	if epss != nil {
		return epss.Score
	}
	return 0.0
}

func kevModifier(kev *types.KEVEntry) float64 {
	if kev == nil {
		return 1.0
	}
	if strings.EqualFold(kev.KnownRansomwareCampaignUse, "known") {
		return 1.1
	}
	return 1.05
}

// levelScore maps a matrix level onto the 0-1 severity factor. The four risk
// levels line up with the four severity levels.
func levelScore(level types.RiskLevel) float64 {
	return scoring.SeverityScore(types.SeverityLevel(level)) / 10.0
}
