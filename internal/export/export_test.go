// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/store"
)

func sampleResults() []search.Result {
	return []search.Result{
		{
			File: store.IndexedFile{
				Path:         "/docs/report.md",
				Name:         "report.md",
				Extension:    ".md",
				Size:         2048,
				ModifiedDate: 1700000000,
			},
			Score:      -1.25,
			Snippet:    "the quarterly <mark>report</mark> covers...",
			Highlights: []string{"report"},
		},
		{
			File: store.IndexedFile{
				Path:      "/docs/notes.txt",
				Name:      "notes.txt",
				Extension: ".txt",
				Size:      512,
			},
			Score: -0.5,
		},
	}
}

func TestJSONExporter(t *testing.T) {
	data, err := NewJSONExporter(nil).Export("report", sampleResults())
	require.NoError(t, err)

	var doc jsonDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "report", doc.Query)
	require.Equal(t, 2, doc.Count)
	require.Equal(t, "/docs/report.md", doc.Results[0].Path)
	require.Equal(t, []string{"report"}, doc.Results[0].Highlights)
}

func TestJSONExporter_OmitsSnippetsWhenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeSnippets = false

	data, err := NewJSONExporter(opts).Export("report", sampleResults())
	require.NoError(t, err)
	require.NotContains(t, string(data), "quarterly")
}

func TestMarkdownExporter(t *testing.T) {
	data, err := NewMarkdownExporter(nil).Export("report", sampleResults())
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "# filedex results")
	require.Contains(t, out, "Query: `report`")
	require.Contains(t, out, "## 1. report.md")
	require.Contains(t, out, "2.0 KB")
	require.Contains(t, out, "2 matches found")
}

func TestCSVExporter(t *testing.T) {
	data, err := NewCSVExporter(nil).Export("report", sampleResults())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "path,name,extension,size,modified,score,snippet", lines[0])
	require.Contains(t, lines[1], "/docs/report.md")
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"json", "md", "markdown", "csv", "JSON"} {
		e, err := ForFormat(format, nil)
		require.NoError(t, err, format)
		require.NotNil(t, e)
	}

	_, err := ForFormat("xml", nil)
	require.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportToFile("quarterly report", sampleResults(), NewJSONExporter(opts), opts)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Contains(t, path, "filedex-quarterly-report-")
	require.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "quarterly report")
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "a-b", sanitizeFilename("a b"))
	require.Equal(t, "", sanitizeFilename("///"))
	require.Equal(t, "", sanitizeFilename("  "))
	require.Len(t, sanitizeFilename(strings.Repeat("x", 100)), 40)
}
