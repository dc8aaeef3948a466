// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/datasource/epss"
	"github.com/bonial-oss/sentinel-risk/internal/datasource/kev"
	"github.com/bonial-oss/sentinel-risk/internal/input"
	"github.com/bonial-oss/sentinel-risk/internal/output"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

// assessOptions holds the assess flag values.
type assessOptions struct {
	NoEPSS              bool
	NoKEV               bool
	SkipDBUpdate        bool
	Format              string
	Output              string
	SortBy              string
	MinLevel            string
	EPSSThreshold       float64
	KEVOnly             bool
	FailOnLevel         string
	FailOnKEV           bool
	FailOnEPSSThreshold float64
	Title               string
	Include             []string
	Exclude             []string
}

func newAssessCommand(global *globalOptions) *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess [workspace-file]",
		Short: "Assess a risk workspace and render the report",
		Long: `Reads a JSON or YAML risk workspace from the given file or stdin, scores
every asset, finding and treatment item, and writes the assessment.

Exit codes: 1 policy violation, 2 invalid input, 3 incompatible flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runAssess(cmd, global, opts, path)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.NoEPSS, "no-epss", false, "Disable EPSS enrichment")
	flags.BoolVar(&opts.NoKEV, "no-kev", false, "Disable KEV enrichment")
	flags.BoolVar(&opts.SkipDBUpdate, "skip-db-update", false, "Use cached data without update check")
	flags.StringVar(&opts.Format, "format", "table", "Output format: table, json, yaml")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")
	flags.StringVar(&opts.SortBy, "sort-by", "risk", "Sort findings by: risk, count, label, epss, none")
	flags.StringVar(&opts.MinLevel, "min-level", "", "Only show findings and treatments at or above this level")
	flags.Float64Var(&opts.EPSSThreshold, "epss-threshold", 0, "Only show findings with EPSS score >= value")
	flags.BoolVar(&opts.KEVOnly, "kev-only", false, "Only show findings present in KEV")
	flags.StringVar(&opts.FailOnLevel, "fail-on-level", "", "Exit code 1 if any finding or treatment reaches this level")
	flags.BoolVar(&opts.FailOnKEV, "fail-on-kev", false, "Exit code 1 if any KEV finding found")
	flags.Float64Var(&opts.FailOnEPSSThreshold, "fail-on-epss-threshold", 0, "Exit code 1 if any finding has EPSS >= value")
	flags.StringVar(&opts.Title, "title", "", "Override the report title")
	flags.StringSliceVar(&opts.Include, "include", nil, "Report sections to enable")
	flags.StringSliceVar(&opts.Exclude, "exclude", nil, "Report sections to disable")

	return cmd
}

// validate checks flag values and combinations before any input is read.
func (o *assessOptions) validate() (assessment.Config, error) {
	var cfg assessment.Config

	switch o.Format {
	case "table", "json", "yaml":
	default:
		return cfg, invalidInput("unsupported output format: %s", o.Format)
	}
	switch o.SortBy {
	case "risk", "count", "label", "epss", "none":
	default:
		return cfg, invalidInput("unsupported sort key: %s", o.SortBy)
	}

	var err error
	if cfg.MinLevel, err = types.ParseRiskLevel(o.MinLevel); err != nil {
		return cfg, invalidInput("invalid --min-level %q", o.MinLevel)
	}
	if cfg.FailOnLevel, err = types.ParseRiskLevel(o.FailOnLevel); err != nil {
		return cfg, invalidInput("invalid --fail-on-level %q", o.FailOnLevel)
	}
	if o.EPSSThreshold < 0 || o.EPSSThreshold > 1 {
		return cfg, invalidInput("--epss-threshold must be between 0 and 1")
	}
	if o.FailOnEPSSThreshold < 0 || o.FailOnEPSSThreshold > 1 {
		return cfg, invalidInput("--fail-on-epss-threshold must be between 0 and 1")
	}

	if o.NoEPSS && (o.EPSSThreshold > 0 || o.FailOnEPSSThreshold > 0 || o.SortBy == "epss") {
		return cfg, incompatible("EPSS filters require EPSS enrichment; remove --no-epss")
	}
	if o.NoKEV && (o.KEVOnly || o.FailOnKEV) {
		return cfg, incompatible("KEV filters require KEV enrichment; remove --no-kev")
	}

	cfg.EPSSThreshold = o.EPSSThreshold
	cfg.KEVOnly = o.KEVOnly
	cfg.FailOnKEV = o.FailOnKEV
	cfg.FailOnEPSSThreshold = o.FailOnEPSSThreshold
	return cfg, nil
}

// applyReport applies the title and section flags to the workspace report.
func (o *assessOptions) applyReport(ws *types.Workspace) error {
	report := ws.ReportConfig()
	if o.Title != "" {
		report.Title = o.Title
	}
	for _, name := range o.Include {
		section, err := types.ParseSection(name)
		if err != nil {
			return invalidInput("unknown report section %q", name)
		}
		report.Set(section, true)
	}
	for _, name := range o.Exclude {
		section, err := types.ParseSection(name)
		if err != nil {
			return invalidInput("unknown report section %q", name)
		}
		report.Set(section, false)
	}
	ws.Report = &report
	return nil
}

// runAssess orchestrates the full assessment pipeline.
func runAssess(cmd *cobra.Command, global *globalOptions, opts *assessOptions, path string) error {
	ctx := cmd.Context()
	logger := ctxlog.From(ctx)

	cfg, err := opts.validate()
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return invalidInput("no input provided")
	}

	parsed, err := input.Parse(data)
	if err != nil {
		return invalidInput("parsing input: %v", err)
	}
	logger.Debug("parsed workspace", "format", parsed.Format.String(),
		"assets", len(parsed.Workspace.Assets),
		"findings", len(parsed.Workspace.Findings))

	ws := parsed.Workspace
	if err := opts.applyReport(ws); err != nil {
		return err
	}

	var epssSource *epss.Source
	var kevSource *kev.Source
	if !opts.NoEPSS {
		epssSource = epss.NewSource(global.CacheDir)
		if err := epssSource.Load(ctx, opts.SkipDBUpdate); err != nil {
			return goerr.Wrap(err, "loading EPSS data")
		}
	}
	if !opts.NoKEV {
		kevSource = kev.NewSource(global.CacheDir)
		if err := kevSource.Load(ctx, opts.SkipDBUpdate); err != nil {
			return goerr.Wrap(err, "loading KEV data")
		}
	}

	result, err := assessment.New(epssSource, kevSource).Assess(ctx, *ws, cfg)
	if err != nil {
		return goerr.Wrap(err, "assessing workspace")
	}

	w, closeOutput, err := openOutput(cmd, opts.Output)
	if err != nil {
		return err
	}
	defer closeOutput()

	switch opts.Format {
	case "table":
		sortBy := opts.SortBy
		if sortBy == "none" {
			sortBy = ""
		}
		tableCfg := output.TableConfig{
			ShowEPSS:   !opts.NoEPSS,
			ShowKEV:    !opts.NoKEV,
			ShowRisk:   !opts.NoEPSS && !opts.NoKEV,
			SortBy:     sortBy,
			IsTerminal: output.IsOutputToTerminal(w),
		}
		err = output.WriteTable(w, result, tableCfg)
	default:
		err = writeData(w, opts.Format, result)
	}
	if err != nil {
		return err
	}

	if result.PolicyViolation {
		for _, v := range result.Violations {
			logger.Warn("policy violation", "subject", v.Subject, "rule", v.Rule, "detail", v.Detail)
		}
		return &ExitError{Code: ExitPolicyViolation, Message: "policy violation detected"}
	}
	return nil
}

// readInput reads path, or the command's stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, goerr.Wrap(err, "reading stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidInput("reading %s: %v", path, err)
	}
	return data, nil
}
