package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/column-config-validator/internal/csvparser"
	"github.com/ginjaninja78/column-config-validator/internal/types"
	"github.com/ginjaninja78/column-config-validator/internal/xlsxparser"
	"github.com/ginjaninja78/column-config-validator/pkg/utils"
)

// inputExtensions are the selection file types the CLI reads.
var inputExtensions = []string{".csv", ".xlsx", ".xlsm"}

// loadSelections reads selection events from a CSV event file or an XLSX
// mapping workbook, chosen by extension.
func loadSelections(path string, settings csvparser.Settings) ([]types.Selection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return csvparser.ParseFile(path, settings)
	case ".xlsx", ".xlsm":
		return xlsxparser.ParseMapping(path)
	default:
		return nil, fmt.Errorf("%s: unsupported file type (expected .csv or .xlsx)", path)
	}
}

// expandInputs replaces directory arguments with the selection files they
// contain. Every argument must exist.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !utils.FileExists(arg) {
			return nil, fmt.Errorf("%s: %w", arg, fs.ErrNotExist)
		}
		if !utils.IsDir(arg) {
			files = append(files, arg)
			continue
		}
		found, err := utils.DiscoverInputFiles(arg, inputExtensions...)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%s: no selection files found", arg)
		}
		files = append(files, found...)
	}
	return files, nil
}
