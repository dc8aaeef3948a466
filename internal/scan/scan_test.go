// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonial-oss/sentinel-risk/internal/types"
)

func fastScanner() *Scanner {
	s := New()
	s.Interval = time.Millisecond
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestValidateIPv4(t *testing.T) {
	valid := []string{"192.168.1.100", "0.0.0.0", "255.255.255.255", " 10.0.0.1 ", "192.168.001.010", "010.000.000.001"}
	for _, ip := range valid {
		assert.NoError(t, ValidateIPv4(ip), ip)
	}

	invalid := []string{"", "256.1.1.1", "1.2.3", "1.2.3.4.5", "::1", "2001:db8::1", "abc.def.ghi.jkl", "1.2.3.4/24",
		"0010.1.1.1", "1..1.1", "+1.1.1.1", "1.1.1.-1", "300.001.1.1"}
	for _, ip := range invalid {
		err := ValidateIPv4(ip)
		require.Error(t, err, ip)
		assert.True(t, types.IsValidation(err), ip)
	}
}

func TestNormalizeIPv4(t *testing.T) {
	tests := map[string]string{
		"192.168.001.010": "192.168.1.10",
		" 10.0.0.1 ":      "10.0.0.1",
		"000.000.000.000": "0.0.0.0",
		"255.255.255.255": "255.255.255.255",
	}
	for in, want := range tests {
		got, err := NormalizeIPv4(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestRun_NormalizesIP(t *testing.T) {
	result, err := fastScanner().Run(context.Background(), "192.168.001.100", nil)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.100", result.IP)
}

func TestRun_ReportsProgress(t *testing.T) {
	var got []int
	result, err := fastScanner().Run(context.Background(), "192.168.1.100", func(pct int) {
		got = append(got, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40, 60, 80, 100}, got)
	assert.Equal(t, "192.168.1.100", result.IP)
}

func TestRun_MockResult(t *testing.T) {
	result, err := fastScanner().Run(context.Background(), "10.0.0.1", nil)
	require.NoError(t, err)

	var ports []int
	for _, p := range result.OpenPorts {
		ports = append(ports, p.Number)
	}
	assert.Equal(t, []int{22, 80, 443, 8080}, ports)
	require.Len(t, result.Vulnerabilities, 2)
	assert.InDelta(t, 7.5, result.RiskScore, 0.001)
	assert.Equal(t, types.RiskHigh, result.RiskLevel)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), result.ScannedAt)
}

func TestRun_InvalidIP(t *testing.T) {
	called := false
	_, err := fastScanner().Run(context.Background(), "300.1.1.1", func(int) { called = true })
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.False(t, called)
}

func TestRun_Cancelled(t *testing.T) {
	s := New()
	s.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "10.0.0.1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []int
	_, err := fastScanner().Run(ctx, "10.0.0.1", func(pct int) {
		got = append(got, pct)
		if pct == 40 {
			cancel()
		}
	})
	require.Error(t, err)
	assert.Equal(t, []int{20, 40}, got)
}

func TestResult_Findings(t *testing.T) {
	result, err := fastScanner().Run(context.Background(), "10.0.0.1", nil)
	require.NoError(t, err)

	cells := result.Findings()
	require.Len(t, cells, 2)
	assert.Equal(t, types.RiskCell{Probability: 3, Impact: 3, Label: "CVE-2023-1234", Count: 1}, cells[0])
	assert.Equal(t, types.RiskCell{Probability: 2, Impact: 2, Label: "CVE-2023-5678", Count: 1}, cells[1])
	for _, c := range cells {
		require.NoError(t, c.Validate())
	}
}
