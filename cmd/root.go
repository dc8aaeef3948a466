// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/bonial-oss/sentinel-risk/internal/config"
	"github.com/bonial-oss/sentinel-risk/internal/logging"
	"github.com/bonial-oss/sentinel-risk/internal/output"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Exit codes.
const (
	ExitPolicyViolation   = 1
	ExitInvalidInput      = 2
	ExitIncompatibleFlags = 3
)

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func invalidInput(format string, args ...any) error {
	return &ExitError{Code: ExitInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func incompatible(format string, args ...any) error {
	return &ExitError{Code: ExitIncompatibleFlags, Message: fmt.Sprintf(format, args...)}
}

// globalOptions holds the persistent flag values.
type globalOptions struct {
	LogLevel  string
	LogFormat string
	CacheDir  string
}

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand() *cobra.Command {
	cfg := loadConfig()
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:     "sentinel",
		Short:   "Score, aggregate and report cybersecurity risk",
		Version: Version,
		Long: `sentinel scores assets, vulnerability findings and treatment plans of a
risk workspace, aggregates them into a 5x5 probability/impact matrix and
renders the assessment report. CVE findings are enriched with EPSS
probability scores and CISA Known Exploited Vulnerabilities (KEV) status.

Usage:
  sentinel example > workspace.yaml
  sentinel assess workspace.yaml
  sentinel score matrix 3 3
  sentinel serve --demo`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(opts.LogLevel)
			if err != nil {
				return invalidInput("invalid --log-level %q", opts.LogLevel)
			}
			format, err := logging.ParseFormat(opts.LogFormat)
			if err != nil {
				return invalidInput("invalid --log-format %q", opts.LogFormat)
			}
			logger := logging.New(level, cmd.ErrOrStderr(), format)
			if cfg.EnvFile != "" {
				logger.Debug("loaded environment file", "path", cfg.EnvFile)
			}
			cmd.SetContext(ctxlog.With(cmd.Context(), logger))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", cfg.LogFormat, "Log format: auto, console, json")
	flags.StringVar(&opts.CacheDir, "cache-dir", cfg.CacheDir, "Threat intelligence cache directory")

	cmd.AddCommand(
		newAssessCommand(opts),
		newScoreCommand(),
		newScanCommand(),
		newServeCommand(opts, cfg.Addr),
		newExampleCommand(),
	)

	return cmd
}

// loadConfig reads flag defaults from the environment and .env files. A
// failure leaves the built-in defaults in place.
func loadConfig() *config.Config {
	cfg, err := config.Load(config.DefaultEnvPaths()...)
	if err != nil {
		return &config.Config{LogLevel: "info", LogFormat: "auto", Addr: "127.0.0.1:8080"}
	}
	return cfg
}

// openOutput returns the writer for path, or the command's stdout for "" and
// "-". The returned close function is always non-nil.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "creating output file", goerr.V("path", path))
	}
	return f, f.Close, nil
}

// writeData writes v as JSON or YAML.
func writeData(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		return output.WriteJSON(w, v)
	case "yaml":
		return output.WriteYAML(w, v)
	default:
		return invalidInput("unsupported output format: %s", format)
	}
}
