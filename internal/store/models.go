// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

// IndexedFile is one row of the files table.
//
// Content and OCRContent are mutually exclusive in practice: image files
// carry OCR text, everything else carries extracted text. Embedding is
// reserved storage and is never written or read by this program.
type IndexedFile struct {
	ID           int64
	Path         string
	Name         string
	Extension    string // lower-cased, including the dot
	Size         int64
	ModifiedDate int64 // Unix seconds, filesystem mtime
	ContentHash  string
	Content      string
	OCRContent   string
	Embedding    []byte
	IndexDate    int64 // Unix seconds of last successful index
}

// Query is the store-level search request. The search engine translates
// a user query into one of these; Match is a ready-to-run FTS5 expression.
type Query struct {
	Match      string
	Extensions []string // exact extension match, as stored
	DateStart  *int64   // inclusive, Unix seconds
	DateEnd    *int64
	SizeMin    *int64
	SizeMax    *int64
	Folders    []string // path prefixes
	Limit      int

	// Snippet highlight markers. Defaults to <mark>/</mark> when empty.
	HighlightStart string
	HighlightEnd   string
}

// Row is a search hit joined with its ranking score and snippet.
//
// Score is the raw SQLite bm25() value: lower is more relevant. Results
// are always ordered ascending by Score.
type Row struct {
	File    IndexedFile
	Score   float64
	Snippet string
}

// LogEntry is one row of the diagnostic log.
type LogEntry struct {
	ID        int64
	Level     string
	Message   string
	Details   string
	Timestamp int64
}
