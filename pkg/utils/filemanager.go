// =============================================================================
// Column Configuration Validator - File Manager Utility
// =============================================================================
//
// This module provides the file handling the CLI needs around a validation
// run:
//   - Discovering selection files when a directory is given
//   - Naming report files from a configurable pattern
//   - Writing report files so a failed write never leaves a partial file
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in dir whose extension is one of
// extensions, compared case-insensitively. Subdirectories are not scanned.
// The result is sorted by path.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - extensions: Extensions including the dot, e.g. ".csv", ".xlsx".
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func DiscoverInputFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Skip Excel lock files such as "~$mapping.xlsx".
		if strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				result = append(result, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     Any key of params, e.g. {session} or {original}
//   - ext: The extension to ensure, e.g. ".json". Empty leaves the name as is.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "validation_{timestamp}_{session}"
//	ext:    ".json"
//	params: {"session": "a1b2"}
//	output: "validation_20240115_143022_a1b2.json"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	return generateOutputFileName(time.Now(), format, ext, params)
}

func generateOutputFileName(now time.Time, format, ext string, params map[string]string) string {
	pairs := []string{
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		pairs = append(pairs, "{uuid}", uuid.New().String())
	}
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", sanitizeFileName(value))
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// sanitizeFileName replaces path separators so a placeholder value cannot
// move the file out of its directory.
func sanitizeFileName(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}

// =============================================================================
// FILE WRITING
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFileAtomic writes a file through a temporary file in the same
// directory and renames it into place once write succeeds.
//
// PARAMETERS:
//   - path: The destination path.
//   - write: Writes the file contents.
//
// RETURNS:
//   - An error if the file cannot be created, written or renamed.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
