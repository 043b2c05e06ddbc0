// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// paneSizes returns the outer widths of the result list and preview
// panes and their shared inner height.
func (m Model) paneSizes() (listW, previewW, paneH int) {
	w := m.width
	if w < 40 {
		w = 40
	}
	listW = w * 2 / 5
	previewW = w - listW

	// Header, input box (3 with border), status bar.
	paneH = m.height - 1 - 3 - 1 - 2
	if paneH < 3 {
		paneH = 3
	}
	return listW, previewW, paneH
}

// View renders the whole interface.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	listW, previewW, paneH := m.paneSizes()

	header := m.viewHeader()
	input := m.viewInput()
	list := m.viewResults(listW, paneH)
	preview := m.viewPreview(previewW, paneH)
	status := m.viewStatus()

	panes := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
	return lipgloss.JoinVertical(lipgloss.Left, header, input, panes, status)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) viewHeader() string {
	title := m.theme.HeaderTitle.Render("filedex")
	sub := ""
	if root := m.app.Index.Root(); root != "" {
		sub = m.theme.HeaderSubtitle.Render("  " + util.TruncateString(root, m.width-20))
	}
	return m.theme.Header.Width(m.width).Render(title + sub)
}

func (m Model) viewInput() string {
	line := m.input.View()
	if m.fuzzy {
		line += "  " + m.theme.ModeBadge.Render("[fuzzy]")
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(line)
}

func (m Model) viewResults(width, height int) string {
	style := m.theme.ResultList
	if m.focus == focusResults {
		style = m.theme.ActiveBorder(style)
	}
	style = style.Width(width - 2).Height(height)

	if len(m.results) == 0 {
		placeholder := "No matches"
		if m.query == "" {
			placeholder = "Results appear here"
		}
		return style.Render(m.theme.ResultMeta.Render(placeholder))
	}

	innerW := width - 4
	rowsPerItem := 3
	visible := height / rowsPerItem
	if visible < 1 {
		visible = 1
	}

	// Keep the selection inside the visible window.
	offset := 0
	if m.selected >= visible {
		offset = m.selected - visible + 1
	}
	end := offset + visible
	if end > len(m.results) {
		end = len(m.results)
	}

	var rows []string
	for i := offset; i < end; i++ {
		r := m.results[i]

		name := m.theme.ResultName.Render(util.TruncateString(r.File.Name, innerW-12))
		meta := m.theme.ResultMeta.Render(fmt.Sprintf("%s  %s",
			util.FormatBytes(r.File.Size),
			time.Unix(r.File.ModifiedDate, 0).Format("2006-01-02")))
		pathLine := m.theme.ResultPath.Render(util.TruncateString(r.File.Path, innerW))
		snippet := m.styleSnippet(util.TruncateString(collapseWhitespace(r.Snippet), innerW))

		item := name + " " + meta + "\n" + pathLine + "\n" + snippet
		if i == m.selected {
			item = m.theme.ResultSelected.Render(item)
		}
		rows = append(rows, item)
	}

	return style.Render(strings.Join(rows, "\n"))
}

func (m Model) viewPreview(width, height int) string {
	style := m.theme.PreviewPane
	if m.focus == focusPreview {
		style = m.theme.ActiveBorder(style)
	}
	style = style.Width(width - 2).Height(height)

	header := ""
	if sel := m.Selected(); sel != nil {
		header = m.theme.PreviewHeader.Render(util.TruncateString(sel.File.Path, width-4)) + "\n"
	}
	return style.Render(header + m.preview.View())
}

func (m Model) viewStatus() string {
	state := m.theme.StateIdle.Render("idle")
	switch m.indexState {
	case index.StateScanning:
		state = m.theme.StateScan.Render("scanning")
	case index.StateWatching:
		state = m.theme.StateWatch.Render("watching")
	}

	totals := m.theme.ShortcutDesc.Render(fmt.Sprintf("%s, %s",
		util.FormatCount(int(m.stats.TotalFiles), "file", "files"),
		util.FormatBytes(m.stats.TotalSize)))

	left := state + "  " + totals
	if m.notice != "" {
		noticeStyle := m.theme.InfoStyle
		if m.noticeErr {
			noticeStyle = m.theme.ErrorStyle
		}
		left += "  " + noticeStyle.Render(util.TruncateString(m.notice, m.width/2))
	}

	var shortcuts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		shortcuts = append(shortcuts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(shortcuts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// SNIPPET RENDERING
// =============================================================================

// styleSnippet replaces the configured highlight markers with terminal
// styling.
func (m Model) styleSnippet(snippet string) string {
	start := m.app.Config.Search.HighlightStart
	end := m.app.Config.Search.HighlightEnd
	if start == "" || end == "" || !strings.Contains(snippet, start) {
		return m.theme.ResultSnippet.Render(snippet)
	}

	var out strings.Builder
	rest := snippet
	for {
		before, after, found := strings.Cut(rest, start)
		out.WriteString(m.theme.ResultSnippet.Render(before))
		if !found {
			break
		}
		span, tail, closed := strings.Cut(after, end)
		if !closed {
			out.WriteString(m.theme.ResultSnippet.Render(span))
			break
		}
		out.WriteString(m.theme.MatchHighlight.Render(span))
		rest = tail
	}
	return out.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
