// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/filedex/internal/app"
	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/store"
)

// previewByteCap bounds how much of a file the preview pane loads.
const previewByteCap = 128 * 1024

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// debounceCmd schedules a query for after the typing settle delay.
func debounceCmd(seq int) tea.Cmd {
	return tea.Tick(debounceDelay*time.Millisecond, func(time.Time) tea.Msg {
		return debounceMsg{Seq: seq}
	})
}

// searchCmd runs a query against the search engine.
func searchCmd(a *app.App, query string, fuzzy bool, seq int) tea.Cmd {
	return func() tea.Msg {
		results, err := a.Search.Search(search.Options{
			Text:  query,
			Fuzzy: fuzzy,
		})
		return resultsMsg{Seq: seq, Query: query, Results: results, Err: err}
	}
}

// previewCmd loads the head of a file for the preview pane.
func previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{Path: path, Err: err}
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, previewByteCap))
		if err != nil {
			return previewMsg{Path: path, Err: err}
		}
		return previewMsg{Path: path, Content: string(data)}
	}
}

// listenEventsCmd waits for the next index engine event. It is
// re-issued after every received event to keep the stream flowing.
func listenEventsCmd(ch <-chan index.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return indexEventMsg{Event: ev}
	}
}

// statsCmd refreshes index totals for the status bar.
func statsCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		stats, err := a.Index.Stats()
		return statsMsg{Stats: stats, Err: err}
	}
}

// openCmd hands the selected file to the platform opener.
func openCmd(a *app.App, path string, reveal bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if reveal {
			err = a.RevealFile(path)
		} else {
			err = a.OpenFile(path)
		}
		return openResultMsg{Path: path, Err: err}
	}
}

// clearNoticeCmd clears a transient notice after a short delay.
func clearNoticeCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return clearNoticeMsg{At: t}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages for the search interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if msg.Seq != m.seq || m.query == "" {
			return m, nil
		}
		return m, searchCmd(m.app, m.query, m.fuzzy, m.seq)

	case resultsMsg:
		return m.handleResults(msg)

	case previewMsg:
		if msg.Path != m.previewPath {
			return m, nil
		}
		if msg.Err != nil {
			m.preview.SetContent(m.theme.ErrorStyle.Render("cannot load preview: " + msg.Err.Error()))
			return m, nil
		}
		m.preview.SetContent(m.renderPreview(msg.Path, msg.Content))
		m.preview.GotoTop()
		return m, nil

	case indexEventMsg:
		return m.handleIndexEvent(msg.Event)

	case statsMsg:
		if msg.Err == nil {
			m.stats = msg.Stats
			m.indexState = msg.Stats.State
		}
		return m, nil

	case openResultMsg:
		if msg.Err != nil {
			return m.withNotice("open failed: "+msg.Err.Error(), true)
		}
		return m, nil

	case clearNoticeMsg:
		m.notice = ""
		m.noticeErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	_, previewW, paneH := m.paneSizes()
	m.input.Width = m.width - 8

	if !m.ready {
		m.preview = newPreviewViewport(previewW, paneH)
		m.ready = true
	} else {
		m.preview.Width = previewW
		m.preview.Height = paneH
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if m.focus != focusInput {
			m.focus = focusInput
			m.input.Focus()
			return m, nil
		}
		if m.input.Value() != "" {
			return m.clearQuery()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		return m.cycleFocus()

	case key.Matches(msg, m.keys.Fuzzy):
		m.fuzzy = !m.fuzzy
		if m.query == "" {
			return m, nil
		}
		m.seq++
		return m, searchCmd(m.app, m.query, m.fuzzy, m.seq)

	case key.Matches(msg, m.keys.Clear):
		return m.clearQuery()

	case key.Matches(msg, m.keys.Open):
		if sel := m.Selected(); sel != nil {
			return m, openCmd(m.app, sel.File.Path, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reveal):
		if sel := m.Selected(); sel != nil {
			return m, openCmd(m.app, sel.File.Path, true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(1)

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	if m.focus == focusPreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	// Everything else edits the query.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if after := m.input.Value(); after != before {
		m.query = after
		m.seq++
		if after == "" {
			next, _ := m.clearQuery()
			return next, cmd
		}
		return m, tea.Batch(cmd, debounceCmd(m.seq))
	}
	return m, cmd
}

func (m Model) handleResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	if msg.Err != nil {
		// An all-operator query sanitizes to nothing; treat it as no
		// results rather than an error.
		if errors.Is(msg.Err, store.ErrEmptyMatch) {
			m.results = nil
			m.selected = 0
			m.preview.SetContent("")
			return m, nil
		}
		return m.withNotice("search failed: "+msg.Err.Error(), true)
	}

	m.results = msg.Results
	m.selected = 0
	if len(m.results) == 0 {
		m.previewPath = ""
		m.preview.SetContent("")
		return m, nil
	}

	m.previewPath = m.results[0].File.Path
	return m, previewCmd(m.previewPath)
}

func (m Model) handleIndexEvent(ev index.Event) (tea.Model, tea.Cmd) {
	relisten := listenEventsCmd(m.app.Index.Events())

	switch ev := ev.(type) {
	case index.ScanStartedEvent:
		m.indexState = index.StateScanning
		m.notice = "indexing " + ev.Root
		m.noticeErr = false
		return m, relisten

	case index.ProgressEvent:
		m.notice = fmt.Sprintf("indexing %d/%d: %s",
			ev.Progress.Current, ev.Progress.Total, ev.Progress.CurrentFile)
		return m, relisten

	case index.CompletedEvent:
		m.notice = fmt.Sprintf("indexed %d of %d files", ev.Indexed, ev.Total)
		m.noticeErr = false
		return m, tea.Batch(relisten, statsCmd(m.app), clearNoticeCmd())

	case index.ErrorEvent:
		m.notice = "indexing failed: " + ev.Err.Error()
		m.noticeErr = true
		return m, tea.Batch(relisten, statsCmd(m.app))

	case index.FileUpdatedEvent, index.FileDeletedEvent:
		// Live change under the watcher; refresh totals and rerun the
		// current query so stale rows drop out of the list.
		cmds := []tea.Cmd{relisten, statsCmd(m.app)}
		if m.query != "" {
			m.seq++
			cmds = append(cmds, searchCmd(m.app, m.query, m.fuzzy, m.seq))
		}
		return m, tea.Batch(cmds...)

	case index.WatcherEvent:
		if ev.Err != nil {
			m.notice = "watcher: " + ev.Err.Error()
			m.noticeErr = true
		}
		return m, tea.Batch(relisten, statsCmd(m.app))
	}

	return m, relisten
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m Model) cycleFocus() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusInput:
		m.focus = focusResults
		m.input.Blur()
	case focusResults:
		m.focus = focusPreview
	default:
		m.focus = focusInput
		m.input.Focus()
	}
	return m, nil
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	if len(m.results) == 0 {
		return m, nil
	}
	next := m.selected + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.results)-1 {
		next = len(m.results) - 1
	}
	if next == m.selected {
		return m, nil
	}

	m.selected = next
	m.previewPath = m.results[next].File.Path
	return m, previewCmd(m.previewPath)
}

func (m Model) clearQuery() (tea.Model, tea.Cmd) {
	m.input.SetValue("")
	m.query = ""
	m.seq++
	m.results = nil
	m.selected = 0
	m.previewPath = ""
	if m.ready {
		m.preview.SetContent("")
	}
	return m, nil
}

func (m Model) withNotice(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeErr = isErr
	return m, clearNoticeCmd()
}
