// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package scan runs the simulated host scan. No packets are sent: the scan
// reports timed progress and then returns a fixed set of findings.
package scan

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// Defaults of a Scanner.
var (
	DefaultSteps    = []int{20, 40, 60, 80, 100}
	DefaultInterval = 800 * time.Millisecond
)

// Port is an open port found on the host.
type Port struct {
	Number   int    `json:"port" yaml:"port"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Service  string `json:"service" yaml:"service"`
}

// Vulnerability is a weakness reported by the scan.
type Vulnerability struct {
	ID          string              `json:"id" yaml:"id"`
	Severity    types.SeverityLevel `json:"severity" yaml:"severity"`
	Description string              `json:"description" yaml:"description"`
}

// Result is the outcome of a scan. RiskScore is the highest severity score
// of the vulnerabilities (0-10).
type Result struct {
	IP              string          `json:"ip" yaml:"ip"`
	ScannedAt       time.Time       `json:"scannedAt" yaml:"scannedAt"`
	OpenPorts       []Port          `json:"openPorts" yaml:"openPorts"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	RiskScore       float64         `json:"riskScore" yaml:"riskScore"`
	RiskLevel       types.RiskLevel `json:"riskLevel" yaml:"riskLevel"`
}

// Findings places each vulnerability on the risk matrix. Probability and
// impact both take the index of the severity (Low=1 .. Critical=4).
func (r *Result) Findings() []types.RiskCell {
	out := make([]types.RiskCell, 0, len(r.Vulnerabilities))
	for _, v := range r.Vulnerabilities {
		idx := scoring.SeverityWeight(v.Severity)
		out = append(out, types.RiskCell{
			Probability: idx,
			Impact:      idx,
			Label:       v.ID,
			Count:       1,
		})
	}
	return out
}

// ProgressFunc receives the completed percentage after each step.
type ProgressFunc func(percent int)

// Scanner runs simulated scans.
type Scanner struct {
	Steps    []int
	Interval time.Duration

	now func() time.Time
}

// New creates a Scanner with the default steps and interval.
func New() *Scanner {
	return &Scanner{
		Steps:    DefaultSteps,
		Interval: DefaultInterval,
		now:      time.Now,
	}
}

// ValidateIPv4 checks that s is a dotted-quad IPv4 address.
func ValidateIPv4(s string) error {
	_, err := NormalizeIPv4(s)
	return err
}

// NormalizeIPv4 parses a dotted-quad IPv4 address and returns its canonical
// form. Each octet has one to three digits, so leading zeros are accepted:
// "192.168.001.010" becomes "192.168.1.10".
func NormalizeIPv4(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return "", invalidIPv4(s)
	}
	var octets [4]byte
	for i, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return "", invalidIPv4(s)
		}
		n := 0
		for _, c := range part {
			if c < '0' || c > '9' {
				return "", invalidIPv4(s)
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return "", invalidIPv4(s)
		}
		octets[i] = byte(n)
	}
	return netip.AddrFrom4(octets).String(), nil
}

func invalidIPv4(s string) error {
	return goerr.New("invalid IPv4 address",
		goerr.V("ip", s),
		goerr.T(types.ErrTagValidation))
}

// Run validates ip, reports progress once per step and returns the result.
// It stops early with an error when ctx is done.
func (s *Scanner) Run(ctx context.Context, ip string, progress ProgressFunc) (*Result, error) {
	ip, err := NormalizeIPv4(ip)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.From(ctx).With("ip", ip)
	logger.Info("scan started")

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, pct := range s.Steps {
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		// A pending tick may win the select after cancellation.
		if err := ctx.Err(); err != nil {
			logger.Warn("scan cancelled", "error", err)
			return nil, goerr.Wrap(err, "scan cancelled", goerr.V("ip", ip))
		}
		if progress != nil {
			progress(pct)
		}
		logger.Debug("scan progress", "percent", pct)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	result := mockResult(ip, now())
	logger.Info("scan complete",
		"vulnerabilities", len(result.Vulnerabilities),
		"risk_level", result.RiskLevel)
	return result, nil
}

func mockResult(ip string, at time.Time) *Result {
	r := &Result{
		IP:        ip,
		ScannedAt: at,
		OpenPorts: []Port{
			{Number: 22, Protocol: "tcp", Service: "SSH"},
			{Number: 80, Protocol: "tcp", Service: "HTTP"},
			{Number: 443, Protocol: "tcp", Service: "HTTPS"},
			{Number: 8080, Protocol: "tcp", Service: "HTTP-Proxy"},
		},
		Vulnerabilities: []Vulnerability{
			{ID: "CVE-2023-1234", Severity: types.SeverityHigh, Description: "Remote code execution vulnerability"},
			{ID: "CVE-2023-5678", Severity: types.SeverityMedium, Description: "Information disclosure"},
		},
	}

	r.RiskLevel = types.RiskLow
	for _, v := range r.Vulnerabilities {
		if score := scoring.SeverityScore(v.Severity); score > r.RiskScore {
			r.RiskScore = score
		}
	}
	for _, cell := range r.Findings() {
		if level := scoring.ClassifyByProduct(cell.Probability, cell.Impact); level > r.RiskLevel {
			r.RiskLevel = level
		}
	}
	return r
}
