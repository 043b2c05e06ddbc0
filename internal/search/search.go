// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search translates structured queries into store queries and
// shapes the raw rows into ranked results with snippets and highlights.
//
// The engine reads from the content store only; it has no dependency on
// the indexing pipeline beyond the data it leaves behind.
package search

import (
	"strings"

	"github.com/jeranaias/filedex/internal/store"
)

// MaxResults caps every query, matching the store's own limit.
const MaxResults = store.DefaultResultLimit

// SuggestionMinLength is the shortest partial string that yields
// suggestions.
const SuggestionMinLength = 2

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 5

// Range is an inclusive [Start, End] filter bound.
type Range struct {
	Start int64
	End   int64
}

// Filters narrows a query beyond the text match. All present filters
// must hold (AND composition).
type Filters struct {
	// FileTypes restricts to these extensions, exact match as stored.
	FileTypes []string
	// DateRange bounds modified_date, epoch seconds inclusive.
	DateRange *Range
	// SizeRange bounds file size in bytes, inclusive.
	SizeRange *Range
	// Folders restricts to paths under any of these prefixes.
	Folders []string
}

// Options is the structured query shape accepted by the engine.
type Options struct {
	Text string

	// Fuzzy widens the match to a proximity group with prefix terms
	// instead of an exact phrase.
	Fuzzy bool

	// Semantic is accepted for interface stability but degrades to a
	// plain ranked text match; no embedding is computed or queried.
	Semantic bool

	Filters Filters

	// Limit caps results; values <= 0 or above MaxResults fall back to
	// MaxResults.
	Limit int
}

// Result is one ranked hit. Score is the store's bm25 relevance metric:
// lower is a better match, and results arrive sorted ascending.
type Result struct {
	File       store.IndexedFile
	Score      float64
	Snippet    string
	Highlights []string
}

// Engine executes structured queries against a content store.
type Engine struct {
	store          *store.Store
	highlightStart string
	highlightEnd   string
}

// New creates an Engine over s using the default <mark> highlight
// markers.
func New(s *store.Store) *Engine {
	return &Engine{store: s, highlightStart: "<mark>", highlightEnd: "</mark>"}
}

// SetHighlightMarkers overrides the snippet highlight markers. Empty
// values keep the defaults.
func (e *Engine) SetHighlightMarkers(start, end string) {
	if start != "" && end != "" {
		e.highlightStart = start
		e.highlightEnd = end
	}
}

// Search runs the query and returns ranked results, best match first,
// capped at MaxResults.
func (e *Engine) Search(opts Options) ([]Result, error) {
	match := buildMatch(opts.Text, opts.Fuzzy)
	if match == "" {
		return nil, store.ErrEmptyMatch
	}

	q := store.Query{
		Match:          match,
		Extensions:     opts.Filters.FileTypes,
		Folders:        opts.Filters.Folders,
		Limit:          opts.Limit,
		HighlightStart: e.highlightStart,
		HighlightEnd:   e.highlightEnd,
	}
	if r := opts.Filters.DateRange; r != nil {
		q.DateStart, q.DateEnd = &r.Start, &r.End
	}
	if r := opts.Filters.SizeRange; r != nil {
		q.SizeMin, q.SizeMax = &r.Start, &r.End
	}

	rows, err := e.store.Search(q)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			File:       row.File,
			Score:      row.Score,
			Snippet:    row.Snippet,
			Highlights: extractHighlights(row.Snippet, e.highlightStart, e.highlightEnd),
		})
	}
	return results, nil
}

// Suggest returns up to MaxSuggestions distinct indexed file names
// containing the partial string, case-insensitive. Partials shorter
// than SuggestionMinLength yield nothing.
func (e *Engine) Suggest(partial string) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if len([]rune(partial)) < SuggestionMinLength {
		return nil, nil
	}
	return e.store.GetSuggestions(partial, MaxSuggestions)
}

// =============================================================================
// MATCH EXPRESSION
// =============================================================================

// buildMatch converts free text into a full-text match expression.
//
// Exact mode quotes the whole input as one phrase. Fuzzy mode turns a
// single term into a prefix match and multiple terms into a proximity
// group, so near-misses in word order still rank. All tokens are
// sanitized first; user input never reaches the match parser as bare
// syntax.
func buildMatch(text string, fuzzy bool) string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return ""
	}

	if !fuzzy {
		return `"` + strings.Join(tokens, " ") + `"`
	}

	if len(tokens) == 1 {
		return `"` + tokens[0] + `"*`
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + tok + `"`
	}
	return "NEAR(" + strings.Join(quoted, " ") + ", 10)"
}

// tokenize splits input on whitespace and strips characters that are
// operators in the match syntax.
func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		tok := sanitizeToken(field)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func sanitizeToken(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		switch r {
		case '"', '*', '(', ')', ':', '^', '{', '}':
			// match-syntax operators
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// HIGHLIGHTS
// =============================================================================

// extractHighlights pulls the distinct marked terms out of a snippet,
// in order of first appearance.
func extractHighlights(snippet, start, end string) []string {
	var (
		highlights []string
		seen       = map[string]bool{}
	)
	rest := snippet
	for {
		i := strings.Index(rest, start)
		if i < 0 {
			break
		}
		rest = rest[i+len(start):]
		j := strings.Index(rest, end)
		if j < 0 {
			break
		}
		term := rest[:j]
		rest = rest[j+len(end):]

		key := strings.ToLower(term)
		if term != "" && !seen[key] {
			seen[key] = true
			highlights = append(highlights, term)
		}
	}
	return highlights
}
