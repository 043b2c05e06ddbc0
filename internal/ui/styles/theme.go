// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the search interface.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// QUERY INPUT STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	ModeBadge        lipgloss.Style

	// ==========================================================================
	// RESULT LIST STYLES
	// ==========================================================================

	ResultList     lipgloss.Style
	ResultItem     lipgloss.Style
	ResultSelected lipgloss.Style
	ResultName     lipgloss.Style
	ResultPath     lipgloss.Style
	ResultMeta     lipgloss.Style
	ResultSnippet  lipgloss.Style
	MatchHighlight lipgloss.Style

	// ==========================================================================
	// PREVIEW PANE STYLES
	// ==========================================================================

	PreviewPane    lipgloss.Style
	PreviewHeader  lipgloss.Style
	PreviewContent lipgloss.Style
	PreviewLineNum lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StateIdle    lipgloss.Style
	StateScan    lipgloss.Style
	StateWatch   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ModeBadge = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ResultList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.ResultItem = lipgloss.NewStyle().
		Foreground(Text)
	t.ResultSelected = lipgloss.NewStyle().
		Background(SurfaceBright).
		Bold(true)
	t.ResultName = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
	t.ResultPath = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ResultMeta = lipgloss.NewStyle().
		Foreground(TextDim)
	t.ResultSnippet = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.MatchHighlight = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.PreviewPane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.PreviewHeader = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.PreviewContent = lipgloss.NewStyle().
		Foreground(Text)
	t.PreviewLineNum = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextMuted).
		Padding(0, 1)
	t.StateIdle = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.StateScan = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.StateWatch = lipgloss.NewStyle().
		Foreground(Emerald)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextDim)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber)
	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Cyan)

	return t
}

// ActiveBorder returns the list or preview style with the border color
// switched to indicate keyboard focus.
func (t *Theme) ActiveBorder(s lipgloss.Style) lipgloss.Style {
	return s.BorderForeground(Cyan)
}
