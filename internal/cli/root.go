// Package cli implements the country-linker command line.
package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"country-linker/internal/batch"
	"country-linker/internal/config"
	"country-linker/internal/linker"
	"country-linker/internal/logging"
	"country-linker/internal/match"
	"country-linker/internal/table"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitMalformedInput = 3
	ExitUnresolved     = 4
)

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: ExitUsage, err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var ee *exitError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.code
	case batch.IsMalformedInput(err):
		return ExitMalformedInput
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, linker.ErrInvalidPolicy),
		errors.Is(err, match.ErrUnknownScorer),
		errors.Is(err, table.ErrUnsupportedFormat):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(ExitCode(err))
	}
}

// app is the state shared by every subcommand.
type app struct {
	debug      bool
	logFormat  string
	configPath string

	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.Discard()}

	cmd := &cobra.Command{
		Use:          "country-linker",
		Short:        "Link free-text country names to ISO3 codes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logging.New(cmd.ErrOrStderr(), logging.Options{Debug: a.debug, Format: a.logFormat})
			if err != nil {
				return usageError(err)
			}

			a.log = l

			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging and configuration dumps")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", logging.FormatText, "log format: text|json")
	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")

	cmd.AddCommand(linkCmd(a), explainCmd(a), normalizeCmd(a), configCmd(a))

	return cmd
}

// loadConfig reads the config file when given, then the environment.
func (a *app) loadConfig() (*config.Config, error) {
	cfg := config.Default()

	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, err
			}

			return nil, usageError(err)
		}

		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// minArgs wraps cobra.MinimumNArgs so argument errors exit as usage errors.
func minArgs(n int) cobra.PositionalArgs {
	check := cobra.MinimumNArgs(n)

	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}

		return nil
	}
}
