// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bonial-oss/sentinel-risk/internal/scan"
)

// WriteScanTable writes a scan result: a summary line, the open ports and the
// detected vulnerabilities.
func WriteScanTable(w io.Writer, result *scan.Result, isTerminal bool) error {
	writeTitle(w, "Scan Results: "+result.IP, isTerminal)
	fmt.Fprintf(w, "Scanned at: %s\n", result.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Risk: %.1f (%s)\n", result.RiskScore, formatLevel(result.RiskLevel, isTerminal))

	writeSectionHeader(w, fmt.Sprintf("Open Ports (Total: %d)", len(result.OpenPorts)), isTerminal)
	tw := newTableWriter(w, isTerminal)
	tw.SetHeaders("Port", "Protocol", "Service")
	for _, p := range result.OpenPorts {
		tw.AddRow(strconv.Itoa(p.Number), p.Protocol, p.Service)
	}
	tw.Render()

	writeSectionHeader(w, fmt.Sprintf("Vulnerabilities (Total: %d)", len(result.Vulnerabilities)), isTerminal)
	tw = newTableWriter(w, isTerminal)
	tw.SetHeaders("ID", "Severity", "Description")
	for _, v := range result.Vulnerabilities {
		tw.AddRow(v.ID, formatSeverity(v.Severity, isTerminal), v.Description)
	}
	tw.Render()
	return nil
}
