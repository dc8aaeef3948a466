// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/output"
	"github.com/bonial-oss/sentinel-risk/internal/scan"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

func newScanCommand() *cobra.Command {
	var (
		format   string
		interval time.Duration
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "scan <ipv4-address>",
		Short: "Run a simulated vulnerability scan against a host",
		Long: `Runs a simulated scan of the given IPv4 address, reporting progress on
stderr, and prints the open ports and detected vulnerabilities. The scan does
not send any network traffic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "json", "yaml":
			default:
				return invalidInput("unsupported output format: %s", format)
			}
			if err := scan.ValidateIPv4(args[0]); err != nil {
				return invalidInput("invalid IPv4 address %q", args[0])
			}

			scanner := scan.New()
			scanner.Interval = interval

			var progress scan.ProgressFunc
			if !quiet {
				stderr := cmd.ErrOrStderr()
				progress = func(percent int) {
					fmt.Fprintf(stderr, "Scanning %s... %d%%\n", args[0], percent)
				}
			}

			result, err := scanner.Run(cmd.Context(), args[0], progress)
			if err != nil {
				if types.IsValidation(err) {
					return invalidInput("%v", err)
				}
				return err
			}

			w := cmd.OutOrStdout()
			if format == "table" {
				return output.WriteScanTable(w, result, output.IsOutputToTerminal(w))
			}
			return writeData(w, format, result)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml")
	cmd.Flags().DurationVar(&interval, "interval", scan.DefaultInterval, "Delay between progress steps")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not report progress")
	return cmd
}
