// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/workspace"
)

func newExampleCommand() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write the demo risk workspace",
		Long: `Writes a sample workspace with two assets, five findings, three treatment
items and three consultation entries. Use it as a starting point for your own
workspace file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return invalidInput("unsupported output format: %s", format)
			}
			w, closeOutput, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			defer closeOutput()
			return writeData(w, format, workspace.Demo())
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: json, yaml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
