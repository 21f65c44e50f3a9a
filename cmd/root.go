// =============================================================================
// Column Configuration Validator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (colvalidate)
//   ├── validateCmd (colvalidate validate)
//   ├── optionsCmd  (colvalidate options)
//   └── versionCmd  (colvalidate version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/logging"
)

// DefaultConfigFile is read when --config is not given. It may be absent.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// ROOT OPTIONS
// =============================================================================

// RootOptions holds the global flags and the state prepared for every
// subcommand before it runs.
type RootOptions struct {
	// ConfigFile is the path to the configuration file.
	ConfigFile string

	// Verbose forces debug logging.
	Verbose bool

	// Config is the loaded configuration.
	Config *config.MainConfig

	// Logger writes to the command's stderr.
	Logger *log.Logger
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "colvalidate",
		Short: "Column Configuration Validator - check balance column setups for conflicts",
		Long: `Column Configuration Validator checks the per-column configuration of a
financial data import: engagement, balance type, period and debit/credit.

It reports two kinds of problems:
  - Business rule violations (current periods need an unadjusted balance,
    prior periods must not use one)
  - Duplicate configurations (two columns that would import the same data)

Example Usage:
  colvalidate validate selections.csv              # Validate and print a text report
  colvalidate validate mapping.xlsx -f xlsx -o out # Write an XLSX report to ./out
  colvalidate options selections.csv --column 2 --field period`,

		// Execute prints errors itself.
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare(cmd)
		},

		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(
		&opts.ConfigFile,
		"config",
		DefaultConfigFile,
		"Path to the configuration file",
	)
	cmd.PersistentFlags().BoolVarP(
		&opts.Verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// prepare loads the configuration and builds the logger.
//
// A missing default configuration file falls back to the built-in defaults.
// A missing file named explicitly with --config is an error.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	cfg, err := config.LoadMainConfig(o.ConfigFile)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return fmt.Errorf("failed to load config: %w", err)
	}
	o.Config = cfg

	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.Logger = logger

	if cmd.Flags().Changed("config") {
		o.Logger.Debug("loaded configuration", "path", o.ConfigFile)
	}
	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
