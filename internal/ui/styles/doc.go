// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the filedex TUI.
//
// Colors are defined once as lipgloss.AdaptiveColor values so every
// style renders sensibly on both light and dark terminals. Theme
// bundles the configured styles for the search interface; construct
// one with NewTheme at program start and pass it down.
package styles
