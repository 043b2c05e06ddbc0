// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

// Progress is the transient per-file progress report emitted during a
// full scan. Percentage is floor(current/total*100).
type Progress struct {
	Current     int
	Total       int
	CurrentFile string
	Percentage  int
}

// Event is a typed lifecycle or progress message published by the
// Engine. The presentation layer subscribes via Engine.Events().
type Event interface {
	event()
}

// ScanStartedEvent is emitted when a full scan begins.
type ScanStartedEvent struct {
	ScanID string
	Root   string
}

// ProgressEvent is emitted after every file processed during a scan.
type ProgressEvent struct {
	ScanID   string
	Progress Progress
}

// CompletedEvent is emitted when a scan finishes, including scans that
// skipped files due to per-item errors.
type CompletedEvent struct {
	ScanID  string
	Total   int
	Indexed int
}

// ErrorEvent is emitted on fatal scan or watcher-setup failure.
type ErrorEvent struct {
	ScanID string
	Err    error
}

// FileUpdatedEvent is emitted when the watcher indexes a file after an
// add or change event. Op is "add" or "change".
type FileUpdatedEvent struct {
	Path string
	Op   string
}

// FileDeletedEvent is emitted when the watcher removes a deleted file
// from the store.
type FileDeletedEvent struct {
	Path string
}

// WatcherState describes a watcher lifecycle transition.
type WatcherState string

const (
	WatcherStarted WatcherState = "started"
	WatcherStopped WatcherState = "stopped"
	WatcherFailed  WatcherState = "error"
)

// WatcherEvent reports watcher lifecycle changes and non-fatal watcher
// errors.
type WatcherEvent struct {
	State WatcherState
	Root  string
	Err   error
}

func (ScanStartedEvent) event() {}
func (ProgressEvent) event()    {}
func (CompletedEvent) event()   {}
func (ErrorEvent) event()       {}
func (FileUpdatedEvent) event() {}
func (FileDeletedEvent) event() {}
func (WatcherEvent) event()     {}
