// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the filedex command line interface.
//
// The package parses arguments into a Command plus Args, then
// dispatches to a handler that drives the app facade. Handlers always
// return errors; main converts them to exit codes via GetExitCode.
//
// # Commands
//
//   - index: scan a folder and watch it for changes
//   - search/suggest/shell: query the index
//   - remove/reindex/vacuum: index maintenance
//   - export: write results to a JSON/Markdown/CSV file
//   - stats/logs/config: inspection and stored settings
//   - open/reveal: hand a result to the platform shell
//
// Output honors TTY detection and NO_COLOR; every command supports
// --json for machine-readable output.
package cli
