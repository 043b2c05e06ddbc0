// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/filedex/internal/search"
)

// =============================================================================
// CSV EXPORTER
// =============================================================================

// CSVExporter exports results as CSV for spreadsheet import.
type CSVExporter struct {
	options *Options
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(opts *Options) *CSVExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CSVExporter{options: opts}
}

// Export renders the results as CSV with a header row.
func (e *CSVExporter) Export(query string, results []search.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"path", "name", "extension", "size", "modified", "score"}
	if e.options.IncludeSnippets {
		header = append(header, "snippet")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		row := []string{
			r.File.Path,
			r.File.Name,
			r.File.Extension,
			strconv.FormatInt(r.File.Size, 10),
			time.Unix(r.File.ModifiedDate, 0).Format(time.RFC3339),
			strconv.FormatFloat(r.Score, 'f', 4, 64),
		}
		if e.options.IncludeSnippets {
			row = append(row, strings.Join(strings.Fields(r.Snippet), " "))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// FileExtension returns ".csv".
func (e *CSVExporter) FileExtension() string { return ".csv" }

// MimeType returns the CSV MIME type.
func (e *CSVExporter) MimeType() string { return "text/csv" }
