// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/filedex/internal/app"
	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/ui/styles"
)

// debounceDelay is how long typing has to settle before a query runs.
const debounceDelay = 200

// focusArea identifies which pane receives navigation keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
	focusPreview
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the interactive search interface.
// It owns a query input, a result list, a preview pane and a status
// bar fed by index engine events.
type Model struct {
	app   *app.App
	theme *styles.Theme
	keys  KeyMap

	input   textinput.Model
	preview viewport.Model

	query    string
	fuzzy    bool
	seq      int
	results  []search.Result
	selected int
	focus    focusArea

	previewPath string

	indexState index.State
	stats      index.Stats
	notice     string
	noticeErr  bool

	width  int
	height int
	ready  bool
}

// New creates the search interface model over the app facade.
func New(a *app.App) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search your files"
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		app:        a,
		theme:      styles.NewTheme(),
		keys:       DefaultKeyMap(),
		input:      ti,
		indexState: a.Index.State(),
	}
}

// Init starts the event listener and the first stats refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		listenEventsCmd(m.app.Index.Events()),
		statsCmd(m.app),
	)
}

// Selected returns the currently selected result, or nil when the list
// is empty.
func (m Model) Selected() *search.Result {
	if m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	return &m.results[m.selected]
}

// Run launches the interactive search interface and blocks until the
// user quits.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
