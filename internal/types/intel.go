// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

// Intel is the threat intelligence attached to a finding whose label is a
// CVE identifier.
type Intel struct {
	// Risk is the composite exploitation risk (0-100). It is only set when
	// both feeds were consulted.
	Risk *float64  `json:"risk,omitempty" yaml:"risk,omitempty"`
	EPSS *EPSSData `json:"epss,omitempty" yaml:"epss,omitempty"`
	KEV  *KEVData  `json:"kev,omitempty" yaml:"kev,omitempty"`
}

// Clone returns a deep copy.
func (i *Intel) Clone() *Intel {
	out := &Intel{Risk: cloneFloat(i.Risk)}
	if i.EPSS != nil {
		e := *i.EPSS
		e.Score = cloneFloat(i.EPSS.Score)
		e.Percentile = cloneFloat(i.EPSS.Percentile)
		out.EPSS = &e
	}
	if i.KEV != nil {
		k := *i.KEV
		out.KEV = &k
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// KEVListed reports whether the finding is in the KEV catalog.
func (i *Intel) KEVListed() bool {
	return i != nil && i.KEV != nil && i.KEV.Listed
}

// EPSSScore returns the EPSS probability, or 0 when unknown.
func (i *Intel) EPSSScore() float64 {
	if i == nil || i.EPSS == nil || i.EPSS.Score == nil {
		return 0
	}
	return *i.EPSS.Score
}

// EPSSData holds the EPSS score and percentile for a CVE.
type EPSSData struct {
	Score        *float64 `json:"score" yaml:"score"`
	Percentile   *float64 `json:"percentile" yaml:"percentile"`
	ModelVersion string   `json:"modelVersion,omitempty" yaml:"modelVersion,omitempty"`
	ScoreDate    string   `json:"scoreDate,omitempty" yaml:"scoreDate,omitempty"`
}

// KEVData holds the Known Exploited Vulnerability data for a CVE.
type KEVData struct {
	Listed                     bool   `json:"listed" yaml:"listed"`
	DateAdded                  string `json:"dateAdded,omitempty" yaml:"dateAdded,omitempty"`
	DueDate                    string `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	KnownRansomwareCampaignUse string `json:"knownRansomwareCampaignUse,omitempty" yaml:"knownRansomwareCampaignUse,omitempty"`
	VendorProject              string `json:"vendorProject,omitempty" yaml:"vendorProject,omitempty"`
	Product                    string `json:"product,omitempty" yaml:"product,omitempty"`
}

// EPSSEntry represents a single row from the EPSS CSV feed.
type EPSSEntry struct {
	CVE        string
	Score      float64
	Percentile float64
}

// KEVEntry represents a single entry in the CISA KEV catalog JSON.
type KEVEntry struct {
	CVEID                      string `json:"cveID"`
	VendorProject              string `json:"vendorProject"`
	Product                    string `json:"product"`
	DateAdded                  string `json:"dateAdded"`
	DueDate                    string `json:"dueDate"`
	KnownRansomwareCampaignUse string `json:"knownRansomwareCampaignUse"`
}

// KEVCatalog represents the CISA KEV catalog JSON structure.
type KEVCatalog struct {
	CatalogVersion  string     `json:"catalogVersion"`
	DateReleased    string     `json:"dateReleased"`
	Count           int        `json:"count"`
	Vulnerabilities []KEVEntry `json:"vulnerabilities"`
}
