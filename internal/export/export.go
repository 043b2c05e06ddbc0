// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes search results to files in shareable formats.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a result set to a target format.
type Exporter interface {
	// Export renders the results and returns the file content.
	Export(query string, results []search.Result) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// Title heads the exported document. Defaults to "filedex results".
	Title string

	// IncludeSnippets writes the match snippet under each result.
	IncludeSnippets bool

	// Timestamp stamps the document with the export time.
	Timestamp bool

	// OutputDir receives the exported file. Defaults to the working
	// directory.
	OutputDir string
}

// DefaultOptions returns the standard export configuration.
func DefaultOptions() *Options {
	return &Options{
		Title:           "filedex results",
		IncludeSnippets: true,
		Timestamp:       true,
	}
}

// ForFormat returns the exporter for a format name. Supported formats
// are "json", "md" (or "markdown") and "csv".
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONExporter(opts), nil
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "csv":
		return NewCSVExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ExportToFile renders the results and writes them next to the current
// directory (or Options.OutputDir). Returns the written path.
func ExportToFile(query string, results []search.Result, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(query, results)
	if err != nil {
		return "", fmt.Errorf("render export: %w", err)
	}

	name := sanitizeFilename(query)
	if name == "" {
		name = "results"
	}
	filename := fmt.Sprintf("filedex-%s-%s%s",
		name, time.Now().Format("20060102-150405"), exporter.FileExtension())

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, filename)

	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// sanitizeFilename strips characters that are unsafe in file names and
// caps the length so queries cannot produce unwieldy paths.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}
