// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/assessment"
	"github.com/bonial-oss/sentinel-risk/internal/datasource/epss"
	"github.com/bonial-oss/sentinel-risk/internal/datasource/kev"
	"github.com/bonial-oss/sentinel-risk/internal/input"
	"github.com/bonial-oss/sentinel-risk/internal/server"
	"github.com/bonial-oss/sentinel-risk/internal/types"
	"github.com/bonial-oss/sentinel-risk/internal/workspace"
)

type serveOptions struct {
	Addr         string
	Demo         bool
	NoEPSS       bool
	NoKEV        bool
	SkipDBUpdate bool
}

func newServeCommand(global *globalOptions, defaultAddr string) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve [workspace-file]",
		Short: "Serve the risk workspace over HTTP",
		Long: `Starts the HTTP API on --addr. The workspace is loaded from the given file,
seeded with the demo data when --demo is set, or starts empty. Changes made
through the API are kept in memory only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Demo && len(args) == 1 {
				return incompatible("--demo cannot be combined with a workspace file")
			}

			var ws types.Workspace
			switch {
			case opts.Demo:
				ws = workspace.Demo()
			case len(args) == 1:
				data, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				parsed, err := input.Parse(data)
				if err != nil {
					return invalidInput("parsing input: %v", err)
				}
				ws = *parsed.Workspace
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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

			store := workspace.New(ws)
			srv := server.New(ctx, store, assessment.New(epssSource, kevSource))
			ctxlog.From(ctx).Info("workspace loaded",
				"assets", len(ws.Assets),
				"findings", len(ws.Findings),
				"treatments", len(ws.Treatments))
			return srv.Run(ctx, opts.Addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Addr, "addr", defaultAddr, "Listen address")
	flags.BoolVar(&opts.Demo, "demo", false, "Seed the workspace with demo data")
	flags.BoolVar(&opts.NoEPSS, "no-epss", false, "Disable EPSS enrichment")
	flags.BoolVar(&opts.NoKEV, "no-kev", false, "Disable KEV enrichment")
	flags.BoolVar(&opts.SkipDBUpdate, "skip-db-update", false, "Use cached data without update check")
	return cmd
}
