// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filedex TUI.
package components

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/filedex/internal/ui/styles"
)

// =============================================================================
// SOURCE VIEW
// =============================================================================

// SourceView renders file content for the preview pane with syntax
// highlighting and line numbers.
type SourceView struct {
	Path     string
	Content  string
	MaxWidth int
	MaxLines int
}

// NewSourceView creates a source view for the given file content.
func NewSourceView(path, content string) SourceView {
	return SourceView{
		Path:     path,
		Content:  content,
		MaxWidth: 80,
		MaxLines: 200,
	}
}

// Render returns the highlighted content with line numbers. Content
// beyond MaxLines is cut; the preview is a glance, not a pager.
func (v SourceView) Render() string {
	content := strings.TrimRight(v.Content, "\n")
	highlighted := HighlightSource(content, v.Path)

	lines := strings.Split(highlighted, "\n")
	if v.MaxLines > 0 && len(lines) > v.MaxLines {
		lines = lines[:v.MaxLines]
	}

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextDim).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var rendered []string
	for i, line := range lines {
		num := lineNumStyle.Render(strconv.Itoa(i + 1))
		// Line already carries chroma's ANSI sequences.
		rendered = append(rendered, num+line)
	}
	return strings.Join(rendered, "\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// HighlightSource applies syntax highlighting to file content using the
// chroma library, picking the lexer from the file name.
func HighlightSource(content, path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
