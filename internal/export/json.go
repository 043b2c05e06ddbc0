// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/filedex/internal/search"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports results as a machine-readable JSON document.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	Title      string       `json:"title"`
	Query      string       `json:"query"`
	ExportedAt string       `json:"exported_at,omitempty"`
	Count      int          `json:"count"`
	Results    []jsonResult `json:"results"`
}

type jsonResult struct {
	Path         string   `json:"path"`
	Name         string   `json:"name"`
	Extension    string   `json:"extension"`
	Size         int64    `json:"size"`
	ModifiedDate int64    `json:"modified_date"`
	Score        float64  `json:"score"`
	Snippet      string   `json:"snippet,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Export renders the results as indented JSON.
func (e *JSONExporter) Export(query string, results []search.Result) ([]byte, error) {
	doc := jsonDocument{
		Title:   e.options.Title,
		Query:   query,
		Count:   len(results),
		Results: make([]jsonResult, 0, len(results)),
	}
	if e.options.Timestamp {
		doc.ExportedAt = time.Now().Format(time.RFC3339)
	}

	for _, r := range results {
		item := jsonResult{
			Path:         r.File.Path,
			Name:         r.File.Name,
			Extension:    r.File.Extension,
			Size:         r.File.Size,
			ModifiedDate: r.File.ModifiedDate,
			Score:        r.Score,
		}
		if e.options.IncludeSnippets {
			item.Snippet = r.Snippet
			item.Highlights = r.Highlights
		}
		doc.Results = append(doc.Results, item)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string { return "application/json" }
