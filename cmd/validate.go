// =============================================================================
// Column Configuration Validator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, the main command of the tool.
// It replays the selections recorded in one or more files and reports the
// resulting validation state.
//
// COMMAND USAGE:
//   colvalidate validate <file|dir>... [flags]
//
// FLAGS:
//   --format, -f     : Report format (text, json, xml, xlsx)
//   --output, -o     : Report directory, or "-" for stdout
//   --headers        : Import workbook whose first row labels the columns
//   --headers-sheet  : Sheet of the import workbook to read labels from
//   --allow-invalid  : Exit successfully even when problems are found
//   --notify         : Print a line to stderr whenever the state changes
//   --delimiter      : CSV delimiter
//   --header-rows    : Number of CSV header rows
//
// PROCESSING PIPELINE:
//   1. Expand directories into selection files
//   2. For each file:
//      a. Load the selection events
//      b. Replay them through a new session
//      c. Write the report
//   3. Fail if any file is invalid, unless --allow-invalid is set
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/column-config-validator/internal/config"
	"github.com/ginjaninja78/column-config-validator/internal/csvparser"
	"github.com/ginjaninja78/column-config-validator/internal/report"
	"github.com/ginjaninja78/column-config-validator/internal/session"
	"github.com/ginjaninja78/column-config-validator/internal/xlsxparser"
	"github.com/ginjaninja78/column-config-validator/pkg/utils"
)

// ErrInvalidConfiguration is returned when at least one input has problems
// and --allow-invalid is not set.
var ErrInvalidConfiguration = errors.New("column configuration is invalid")

// StdoutOutput selects stdout as the report destination.
const StdoutOutput = "-"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// validateOptions holds the flags of the validate command.
type validateOptions struct {
	format       string
	output       string
	headers      string
	headersSheet string
	allowInvalid bool
	notify       bool
	csv          csvparser.Settings
}

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &validateOptions{csv: csvparser.DefaultSettings()}

	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Replay column selections and report conflicts",
		Long: `The validate command replays the column selections recorded in a CSV event
file (column,field,value) or an XLSX mapping workbook, then reports business
rule violations and duplicate configurations.

Each file is validated in its own session. Directories are expanded to the
.csv and .xlsx files they contain.

The command exits with an error when any file is invalid, unless
--allow-invalid is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Report format: "+strings.Join(config.ReportFormats, ", ")+" (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `Report directory, or "-" for stdout (default from config)`)
	cmd.Flags().StringVar(&opts.headers, "headers", "", "XLSX import workbook whose first row labels the columns")
	cmd.Flags().StringVar(&opts.headersSheet, "headers-sheet", "", "Sheet to read column labels from (default: first sheet)")
	cmd.Flags().BoolVar(&opts.allowInvalid, "allow-invalid", false, "Exit successfully even when problems are found")
	cmd.Flags().BoolVar(&opts.notify, "notify", false, "Print a line to stderr whenever the validation state changes")
	cmd.Flags().StringVar(&opts.csv.Delimiter, "delimiter", opts.csv.Delimiter, "CSV delimiter (tab, pipe and semicolon accepted by name)")
	cmd.Flags().IntVar(&opts.csv.HeaderRows, "header-rows", opts.csv.HeaderRows, "Number of CSV header rows")

	return cmd
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runValidate validates every input and writes one report per input.
func runValidate(rootOpts *RootOptions, opts *validateOptions, cmd *cobra.Command, args []string) error {
	cfg := rootOpts.Config
	logger := rootOpts.Logger

	format := opts.format
	if format == "" {
		format = cfg.ReportFormat
	}
	if !contains(config.ReportFormats, format) {
		return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(config.ReportFormats, ", "))
	}

	output := opts.output
	if output == "" {
		output = cfg.OutputDir
	}
	if output == StdoutOutput && format == config.ReportFormatXLSX {
		return fmt.Errorf("xlsx reports cannot be written to stdout; use --output DIR")
	}

	var labels report.Labels
	if opts.headers != "" {
		headers, err := xlsxparser.ReadHeaders(opts.headers, opts.headersSheet)
		if err != nil {
			return fmt.Errorf("failed to read column labels: %w", err)
		}
		labels = headers
		logger.Debug("read column labels", "count", len(labels))
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	invalid := 0
	for _, file := range files {
		var sessionOpts []session.Option
		sessionOpts = append(sessionOpts, session.WithLogger(logger.With("file", filepath.Base(file))))
		if opts.notify {
			sessionOpts = append(sessionOpts, session.WithReporter(report.NewNotifier(cmd.ErrOrStderr(), labels)))
		}

		result, err := validateFile(cfg, file, opts.csv, sessionOpts...)
		if err != nil {
			return err
		}
		if !result.Final.Valid {
			invalid++
		}

		doc := report.NewDocument(result, cfg.Catalog.BalanceTypeSet(), labels)
		if err := writeReport(cmd.OutOrStdout(), cfg, output, format, file, doc, labels); err != nil {
			return err
		}
	}

	logger.Info("validation finished", "files", len(files), "invalid", invalid)

	if invalid > 0 && !opts.allowInvalid {
		return fmt.Errorf("%w: %d of %d file(s) have problems", ErrInvalidConfiguration, invalid, len(files))
	}
	return nil
}

// validateFile loads one selection file and replays it in a new session.
func validateFile(cfg *config.MainConfig, path string, settings csvparser.Settings, opts ...session.Option) (*session.Result, error) {
	selections, err := loadSelections(path, settings)
	if err != nil {
		return nil, err
	}

	s := session.New(cfg, opts...)
	result, err := s.Run(selections)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// writeReport writes a report to stdout or into the output directory.
func writeReport(stdout io.Writer, cfg *config.MainConfig, output, format, input string, doc report.Document, labels report.Labels) error {
	if output == StdoutOutput {
		return report.Write(stdout, doc, format, labels)
	}

	original := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := utils.GenerateOutputFileName(cfg.ReportFileFormat, report.Extension(format), map[string]string{
		"session":  doc.SessionID,
		"original": original,
	})
	path := filepath.Join(output, name)

	if err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return report.Write(w, doc, format, labels)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	mark := "✓"
	if !doc.Valid {
		mark = "✗"
	}
	fmt.Fprintf(stdout, "  %s %s -> %s\n", mark, filepath.Base(input), path)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
