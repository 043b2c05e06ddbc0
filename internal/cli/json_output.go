// json_output.go - JSON output support for scripting integration.
//
// Provides a standardized JSON output format for all CLI commands so
// results can be piped into other tools.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// SearchResultData is one search hit in JSON output.
type SearchResultData struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Extension  string   `json:"extension"`
	Size       int64    `json:"size"`
	Modified   int64    `json:"modified"`
	Score      float64  `json:"score"`
	Snippet    string   `json:"snippet"`
	Highlights []string `json:"highlights,omitempty"`
}

// SearchData represents the data returned by the search command.
type SearchData struct {
	Query   string             `json:"query"`
	Fuzzy   bool               `json:"fuzzy"`
	Count   int                `json:"count"`
	Results []SearchResultData `json:"results"`
}

// StatsData represents the data returned by the stats command.
type StatsData struct {
	TotalFiles  int64  `json:"total_files"`
	TotalSize   int64  `json:"total_size_bytes"`
	LastIndexed string `json:"last_indexed,omitempty"`
	State       string `json:"state"`
	Database    string `json:"database"`
	LastFolder  string `json:"last_folder,omitempty"`
}

// LogEntryData is one diagnostic log entry in JSON output.
type LogEntryData struct {
	ID        int64  `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
