// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search implements the interactive full-screen search
// interface.
//
// The Bubble Tea model owns three panes: a query input, a result list
// and a content preview, plus a status bar fed by index engine events.
// Typing is debounced before hitting the search engine; results drive
// the preview pane, where markdown renders through glamour and source
// files through chroma. Launch it with Run.
package search
