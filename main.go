// =============================================================================
// Column Configuration Validator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Column Configuration Validator CLI.
// It delegates command execution to the cmd package.
//
// USAGE:
//   colvalidate validate  - Replay column selections and report problems
//   colvalidate options   - List the choices for one column field
//   colvalidate version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (store, validation, session, loaders, reports)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/column-config-validator/cmd"
)

func main() {
	cmd.Execute()
}
