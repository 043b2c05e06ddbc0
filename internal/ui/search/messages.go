// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"time"

	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/search"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// debounceMsg fires after the typing settle delay. Seq pins it to the
// keystroke that scheduled it; stale ticks are dropped.
type debounceMsg struct {
	Seq int
}

// resultsMsg carries a completed query. Seq matches the debounce tick
// that launched the query.
type resultsMsg struct {
	Seq     int
	Query   string
	Results []search.Result
	Err     error
}

// previewMsg carries the loaded content of the selected file.
type previewMsg struct {
	Path    string
	Content string
	Err     error
}

// indexEventMsg wraps an engine event for the status line.
type indexEventMsg struct {
	Event index.Event
}

// statsMsg refreshes the totals shown in the status bar.
type statsMsg struct {
	Stats index.Stats
	Err   error
}

// openResultMsg reports the outcome of handing a file to the platform
// opener.
type openResultMsg struct {
	Path string
	Err  error
}

// clearNoticeMsg clears a transient status notice.
type clearNoticeMsg struct {
	At time.Time
}
