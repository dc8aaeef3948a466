// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// scoreResult is the machine-readable form of a quick score.
type scoreResult struct {
	Scale string          `json:"scale" yaml:"scale"`
	Score int             `json:"score" yaml:"score"`
	Level types.RiskLevel `json:"level,omitempty" yaml:"level,omitempty"`
}

func newScoreCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single asset, matrix cell or treatment item",
	}
	cmd.PersistentFlags().StringVar(&format, "format", "text", "Output format: text, json, yaml")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "asset <confidentiality> <integrity> <availability>",
			Short: "Derive an asset value from its CIA ratings",
			Example: `  sentinel score asset High Critical High
  sentinel score asset low low medium --format json`,
			Args: cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				var cia [3]types.SeverityLevel
				for i, arg := range args {
					level, err := types.ParseSeverityLevel(arg)
					if err != nil {
						return invalidInput("invalid rating %q: want Low, Medium, High or Critical", arg)
					}
					cia[i] = level
				}
				value := scoring.AssetValue(cia[0], cia[1], cia[2])
				return writeScore(cmd, format, scoreResult{Scale: "asset", Score: value})
			},
		},
		&cobra.Command{
			Use:     "matrix <probability> <impact>",
			Short:   "Classify a 0-4 risk matrix coordinate",
			Example: `  sentinel score matrix 3 3`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, i, err := parsePair(args, 0, types.MatrixSize-1)
				if err != nil {
					return err
				}
				return writeScore(cmd, format, scoreResult{
					Scale: "matrix",
					Score: scoring.MatrixScore(p, i),
					Level: scoring.ClassifyByProduct(p, i),
				})
			},
		},
		&cobra.Command{
			Use:     "treatment <probability> <impact>",
			Short:   "Classify a 1-10 treatment item",
			Example: `  sentinel score treatment 8 9`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, i, err := parsePair(args, types.TreatmentScaleMin, types.TreatmentScaleMax)
				if err != nil {
					return err
				}
				return writeScore(cmd, format, scoreResult{
					Scale: "treatment",
					Score: scoring.TreatmentScore(p, i),
					Level: scoring.ClassifyByScaledProduct(p, i),
				})
			},
		},
	)

	return cmd
}

// parsePair parses a probability and an impact within [lo, hi].
func parsePair(args []string, lo, hi int) (int, int, error) {
	var out [2]int
	for n, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil || v < lo || v > hi {
			return 0, 0, invalidInput("%q must be an integer between %d and %d", arg, lo, hi)
		}
		out[n] = v
	}
	return out[0], out[1], nil
}

func writeScore(cmd *cobra.Command, format string, r scoreResult) error {
	if format != "text" {
		return writeData(cmd.OutOrStdout(), format, r)
	}
	w := cmd.OutOrStdout()
	if r.Scale == "asset" {
		_, err := fmt.Fprintf(w, "Asset value: %d\n", r.Score)
		return err
	}
	_, err := fmt.Fprintf(w, "Score: %d\nLevel: %s\n", r.Score, r.Level)
	return err
}
