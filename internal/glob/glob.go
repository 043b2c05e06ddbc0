// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package glob implements segment-aware glob matching for exclusion
// patterns.
//
// Supported syntax:
//
//   - `**` matches any number of path segments, including zero
//   - `*`  matches any run of characters within one segment
//   - `?`  matches exactly one character within one segment
//
// Patterns and paths are compared segment by segment after separator
// normalization, so a `.` in an extension is always a literal dot and a
// `*` can never cross a path separator. A pattern containing no
// separator matches any single segment of the path (like a .gitignore
// name pattern).
package glob

import (
	"strings"
)

// normalize converts both separator styles to forward slashes so
// patterns behave identically for Windows and POSIX paths.
func normalize(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// Matcher matches paths against a fixed set of glob patterns.
type Matcher struct {
	patterns [][]string // pre-split into segments
}

// New compiles a set of patterns into a Matcher. Empty patterns are
// ignored.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.Trim(normalize(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		m.patterns = append(m.patterns, strings.Split(p, "/"))
	}
	return m
}

// Match reports whether path matches any pattern. Directory paths match
// patterns ending in `/**` as well, since `**` matches zero segments;
// a matched directory should be pruned entirely.
func (m *Matcher) Match(path string) bool {
	parts := splitPath(path)
	if len(parts) == 0 {
		return false
	}
	for _, pat := range m.patterns {
		if len(pat) == 1 {
			// Bare name pattern: match any single segment.
			for _, part := range parts {
				if matchSegment(pat[0], part) {
					return true
				}
			}
			continue
		}
		if matchSegments(pat, parts) {
			return true
		}
	}
	return false
}

// MatchWithAncestors reports whether path or any of its ancestor
// directories matches a pattern. Used by the watcher, which receives
// events for paths inside directories the scanner never descended into.
func (m *Matcher) MatchWithAncestors(path string) bool {
	parts := splitPath(path)
	for i := len(parts); i > 0; i-- {
		if m.Match(strings.Join(parts[:i], "/")) {
			return true
		}
	}
	return false
}

// splitPath normalizes separators and splits into non-empty segments.
func splitPath(path string) []string {
	norm := strings.Trim(normalize(path), "/")
	if norm == "" {
		return nil
	}
	return strings.Split(norm, "/")
}

// matchSegments matches a pattern segment list against path segments,
// backtracking over `**`.
func matchSegments(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		// `**` absorbs zero or more leading segments.
		if matchSegments(pat[1:], parts) {
			return true
		}
		return len(parts) > 0 && matchSegments(pat, parts[1:])
	}
	if len(parts) == 0 {
		return false
	}
	return matchSegment(pat[0], parts[0]) && matchSegments(pat[1:], parts[1:])
}

// matchSegment matches a single pattern segment (`*`, `?`, literals)
// against a single path segment. Rune-based so `?` consumes one
// character, not one byte.
func matchSegment(pattern, segment string) bool {
	pat := []rune(pattern)
	s := []rune(segment)

	// Iterative wildcard match with a single backtrack point for `*`.
	var (
		pi, si         int
		starPi, starSi = -1, 0
	)
	for si < len(s) {
		switch {
		case pi < len(pat) && (pat[pi] == '?' || pat[pi] == s[si]):
			pi++
			si++
		case pi < len(pat) && pat[pi] == '*':
			starPi, starSi = pi, si
			pi++
		case starPi >= 0:
			starSi++
			pi = starPi + 1
			si = starSi
		default:
			return false
		}
	}
	for pi < len(pat) && pat[pi] == '*' {
		pi++
	}
	return pi == len(pat)
}
