// =============================================================================
// Column Configuration Validator - Options Command
// =============================================================================
//
// This file defines the 'options' command. It replays a selection file and
// then lists the dropdown choices for one field of one column, marking the
// ones that would make the column invalid.
//
// COMMAND USAGE:
//   colvalidate options <file> --column N --field FIELD [--json]
//
// OUTPUT:
//   Column 0 period options:
//     current-period  disabled  current period requires unadjusted balance type.
//     prior-period-1  disabled  same configuration as column 1
//     prior-period-2
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/column-config-validator/internal/csvparser"
	"github.com/ginjaninja78/column-config-validator/internal/session"
	"github.com/ginjaninja78/column-config-validator/internal/types"
)

// optionsOptions holds the flags of the options command.
type optionsOptions struct {
	column int
	field  string
	json   bool
	csv    csvparser.Settings
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &optionsOptions{csv: csvparser.DefaultSettings()}

	cmd := &cobra.Command{
		Use:   "options <file>",
		Short: "List the choices for a column field after replaying a selection file",
		Long: `The options command replays a selection file and lists the catalog choices
for one field of one column. Choices that would create a duplicate
configuration or break a business rule are shown as disabled, with the
reason.

Fields: ` + strings.Join(types.Fields, ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(rootOpts, opts, cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().IntVar(&opts.column, "column", 0, "Column index (0-based)")
	cmd.Flags().StringVar(&opts.field, "field", "", "Field to list choices for")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the choices as JSON")
	cmd.Flags().StringVar(&opts.csv.Delimiter, "delimiter", opts.csv.Delimiter, "CSV delimiter")
	cmd.Flags().IntVar(&opts.csv.HeaderRows, "header-rows", opts.csv.HeaderRows, "Number of CSV header rows")
	cmd.MarkFlagRequired("column")
	cmd.MarkFlagRequired("field")

	return cmd
}

// runOptions replays the file and prints the choices.
func runOptions(rootOpts *RootOptions, opts *optionsOptions, w io.Writer, path string) error {
	field, err := csvparser.NormalizeField(opts.field)
	if err != nil {
		return err
	}

	selections, err := loadSelections(path, opts.csv)
	if err != nil {
		return err
	}

	s := session.New(rootOpts.Config, session.WithLogger(rootOpts.Logger))
	if _, err := s.Run(selections); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	choices, err := s.Options(opts.column, field)
	if err != nil {
		return err
	}

	if opts.json {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(choices)
	}

	return printChoices(w, opts.column, field, choices)
}

// printChoices prints the choices as an aligned list.
func printChoices(w io.Writer, column int, field string, choices []session.Choice) error {
	if _, err := fmt.Fprintf(w, "Column %d %s options:\n", column, field); err != nil {
		return err
	}
	if len(choices) == 0 {
		_, err := fmt.Fprintln(w, "  (no catalog options)")
		return err
	}

	width := 0
	for _, c := range choices {
		if len(c.Value) > width {
			width = len(c.Value)
		}
	}

	for _, c := range choices {
		var err error
		if c.Disabled {
			_, err = fmt.Fprintf(w, "  %-*s  disabled  %s\n", width, c.Value, c.Reason)
		} else {
			_, err = fmt.Fprintf(w, "  %s\n", c.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
