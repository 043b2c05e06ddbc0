// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/filedex/internal/index"
)

func TestParseSearchArgs(t *testing.T) {
	var args Args
	parseSearchArgs(&args, []string{
		"quarterly", "report", "--fuzzy", "--type", "md,.txt", "--limit", "10",
		"--folder=/home/docs",
	})

	require.Equal(t, "quarterly report", args.Query)
	require.True(t, args.Fuzzy)
	require.Equal(t, []string{".md", ".txt"}, args.Types)
	require.Equal(t, 10, args.Limit)
	require.Equal(t, "/home/docs", args.Folder)
}

func TestParseSearchArgs_EqualsForms(t *testing.T) {
	var args Args
	parseSearchArgs(&args, []string{"notes", "--type=.md", "--limit=5"})

	require.Equal(t, "notes", args.Query)
	require.Equal(t, []string{".md"}, args.Types)
	require.Equal(t, 5, args.Limit)
}

func TestParseSearchArgs_IgnoresBadLimit(t *testing.T) {
	var args Args
	parseSearchArgs(&args, []string{"notes", "--limit", "zero"})
	require.Zero(t, args.Limit)
}

func TestSplitTypes(t *testing.T) {
	require.Equal(t, []string{".md", ".txt"}, splitTypes("md, .TXT"))
	require.Nil(t, splitTypes(" , "))
}

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--json", "-q", "search", "foo"})
	require.True(t, args.JSON)
	require.True(t, args.Quiet)
	require.Equal(t, []string{"search", "foo"}, remaining)
}

func TestParseExportArgs(t *testing.T) {
	var args Args
	parseExportArgs(&args, []string{"invoice", "--format", "csv", "--fuzzy"})
	require.Equal(t, "invoice", args.Query)
	require.Equal(t, "csv", args.Format)
	require.True(t, args.Fuzzy)
}

func TestParseExportArgs_DefaultsToJSON(t *testing.T) {
	var args Args
	parseExportArgs(&args, []string{"notes", "--format=md"})
	require.Equal(t, "md", args.Format)

	var noFormat Args
	parseExportArgs(&noFormat, []string{"notes"})
	require.Equal(t, "json", noFormat.Format)
}

func TestParseConfigArgs(t *testing.T) {
	var args Args
	parseConfigArgs(&args, []string{"set", "ocrLanguages", `["eng","deu"]`})
	require.Equal(t, "set", args.Subcommand)
	require.Equal(t, "ocrLanguages", args.ConfigKey)
	require.Equal(t, `["eng","deu"]`, args.ConfigVal)
}

func TestGetExitCode(t *testing.T) {
	require.Equal(t, ExitSuccess, GetExitCode(nil))
	require.Equal(t, ExitBusyError, GetExitCode(index.ErrIndexing))
	require.Equal(t, ExitUsageError, GetExitCode(index.ErrInvalidPath))
	require.Equal(t, ExitUsageError, GetExitCode(&ValidationError{Field: "query", Reason: "empty"}))
	require.Equal(t, ExitNotFoundError, GetExitCode(&NotFoundError{Resource: "setting", ID: "x"}))
	require.Equal(t, ExitGeneralError, GetExitCode(errors.New("boom")))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Field:   "folder",
		Reason:  "required argument missing",
		Example: "filedex index ~/Documents",
	}
	require.Contains(t, err.Error(), "invalid folder")
	require.Contains(t, err.Error(), "Example: filedex index ~/Documents")
}
