// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// WATCHER
// =============================================================================

// pendingFile tracks a file seen by Create/Write events until its
// size/mtime hold stable for the settle window. Editors and copies
// produce bursts of partial writes; indexing mid-burst would persist
// truncated content.
type pendingFile struct {
	size        int64
	mtime       time.Time
	stableSince time.Time
}

// Watcher keeps the index synchronized with a folder after a full scan.
// fsnotify watches are not recursive, so every non-excluded directory
// under the root is registered individually, and new directories are
// registered as they appear.
type Watcher struct {
	engine *Engine
	root   string
	fw     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingFile

	done chan struct{}
	wg   sync.WaitGroup
}

func newWatcher(e *Engine, root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		engine:  e,
		root:    root,
		fw:      fw,
		pending: make(map[string]*pendingFile),
		done:    make(chan struct{}),
	}, nil
}

// Start registers watches on the root and all non-excluded
// subdirectories, then launches the event and settle loops.
func (w *Watcher) Start() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.settleLoop()
	return nil
}

// Close stops both loops and releases the fsnotify handle. Safe to call
// more than once.
func (w *Watcher) Close() {
	select {
	case <-w.done:
		return
	default:
	}
	close(w.done)
	w.fw.Close()
	w.wg.Wait()
}

// addRecursive registers dir and every non-excluded directory below it.
// Unreadable subtrees are logged and skipped.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("watch: cannot read %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.engine.matcher.Match(path) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			// Watching the root must succeed; losing a subdirectory
			// only degrades coverage.
			if path == dir {
				return err
			}
			log.Printf("watch: add %s: %v", path, err)
			return filepath.SkipDir
		}
		return nil
	})
}

// =============================================================================
// EVENT LOOP
// =============================================================================

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
			w.engine.emit(WatcherEvent{State: WatcherFailed, Root: w.root, Err: err})
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.handleRemoved(path)

	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if w.engine.matcher.MatchWithAncestors(path) {
			return
		}
		info, err := os.Stat(path)
		if err != nil {
			// Gone already; a Remove event will follow if it was indexed.
			return
		}
		if info.IsDir() {
			if ev.Op&fsnotify.Create != 0 {
				w.handleNewDirectory(path)
			}
			return
		}
		if !w.engine.isSupported(path) {
			return
		}
		w.enqueue(path, info)
	}
}

// handleRemoved retracts a deleted path from the index. Whether the
// path was a file or a directory is unknowable after the fact, so both
// the exact row and any rows under it as a prefix are removed.
func (w *Watcher) handleRemoved(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	existed, err := w.engine.store.GetFile(path)
	if err != nil {
		log.Printf("watch: lookup %s: %v", path, err)
		return
	}
	if existed != nil {
		if err := w.engine.store.DeleteFile(path); err != nil {
			log.Printf("watch: delete %s: %v", path, err)
			return
		}
		w.engine.emit(FileDeletedEvent{Path: path})
	}

	if n, err := w.engine.store.DeleteFilesByPrefix(path); err != nil {
		log.Printf("watch: delete subtree %s: %v", path, err)
	} else if n > 0 {
		w.engine.emit(FileDeletedEvent{Path: path})
	}
}

// handleNewDirectory registers watches for a directory created after
// the scan and queues any supported files already inside it. Files can
// land before the watch is in place, so the sweep is required.
func (w *Watcher) handleNewDirectory(dir string) {
	if err := w.addRecursive(dir); err != nil {
		log.Printf("watch: add new directory %s: %v", dir, err)
		return
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.engine.matcher.MatchWithAncestors(path) || !w.engine.isSupported(path) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			w.enqueue(path, info)
		}
		return nil
	})
	if err != nil {
		log.Printf("watch: sweep %s: %v", dir, err)
	}
}

// =============================================================================
// WRITE SETTLING
// =============================================================================

// enqueue records path for settle tracking, resetting its stability
// clock if size or mtime moved since the last observation.
func (w *Watcher) enqueue(path string, info os.FileInfo) {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || p.size != info.Size() || !p.mtime.Equal(info.ModTime()) {
		w.pending[path] = &pendingFile{
			size:        info.Size(),
			mtime:       info.ModTime(),
			stableSince: now,
		}
	}
}

// settleLoop polls pending files and indexes each one once its
// size/mtime have held stable for the settle window.
func (w *Watcher) settleLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.engine.config.SettlePoll)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			for _, path := range w.takeSettled() {
				w.indexSettled(path)
			}
		}
	}
}

// takeSettled removes and returns the paths whose observations have
// been stable for at least the settle window. Paths that changed on
// re-stat have their clock reset instead.
func (w *Watcher) takeSettled() []string {
	now := time.Now()
	window := w.engine.config.SettleWindow

	w.mu.Lock()
	defer w.mu.Unlock()

	var settled []string
	for path, p := range w.pending {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.pending, path)
			continue
		}
		if p.size != info.Size() || !p.mtime.Equal(info.ModTime()) {
			p.size = info.Size()
			p.mtime = info.ModTime()
			p.stableSince = now
			continue
		}
		if now.Sub(p.stableSince) >= window {
			delete(w.pending, path)
			settled = append(settled, path)
		}
	}
	return settled
}

func (w *Watcher) indexSettled(path string) {
	action, err := w.engine.indexFile(path)
	if err != nil {
		w.engine.logDiag("error", "failed to index changed file", map[string]any{
			"path": path, "error": err.Error(),
		})
		return
	}
	switch action {
	case actionAdded:
		w.engine.emit(FileUpdatedEvent{Path: path, Op: "add"})
	case actionUpdated:
		w.engine.emit(FileUpdatedEvent{Path: path, Op: "change"})
	}
}
