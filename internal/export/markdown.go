// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports results as a human-readable Markdown report.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export renders the results as Markdown.
func (e *MarkdownExporter) Export(query string, results []search.Result) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", e.options.Title)
	fmt.Fprintf(&b, "Query: `%s`\n\n", query)
	if e.options.Timestamp {
		fmt.Fprintf(&b, "Exported: %s\n\n", time.Now().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "%s found.\n\n", util.FormatCount(int64(len(results)), "match", "matches"))

	for i, r := range results {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.File.Name)
		fmt.Fprintf(&b, "- Path: `%s`\n", r.File.Path)
		fmt.Fprintf(&b, "- Size: %s\n", util.FormatBytes(r.File.Size))
		fmt.Fprintf(&b, "- Modified: %s\n",
			time.Unix(r.File.ModifiedDate, 0).Format("2006-01-02 15:04"))
		fmt.Fprintf(&b, "- Score: %.4f\n", r.Score)

		if e.options.IncludeSnippets && r.Snippet != "" {
			fmt.Fprintf(&b, "\n> %s\n", strings.Join(strings.Fields(r.Snippet), " "))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }
