// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index orchestrates directory scans, change detection, text
// extraction and persistence, and keeps the index fresh with a file
// system watcher.
package index

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/time/rate"

	"github.com/jeranaias/filedex/internal/extract"
	"github.com/jeranaias/filedex/internal/glob"
	"github.com/jeranaias/filedex/internal/ocr"
	"github.com/jeranaias/filedex/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrIndexing is returned when a scan is requested while another
	// scan is already in flight. The caller must retry later.
	ErrIndexing = errors.New("indexing already in progress")

	ErrInvalidPath = errors.New("invalid path")
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds indexing engine configuration.
type Config struct {
	// ExcludePatterns are glob patterns pruned during scans and ignored
	// by the watcher. `**` spans segments, `*`/`?` stay within one.
	ExcludePatterns []string

	// SupportedExtensions is the allow-list of indexable extensions,
	// lower-cased with the leading dot.
	SupportedExtensions []string

	// ImageExtensions route to OCR instead of text extraction.
	ImageExtensions []string

	// MaxFileSize is the largest file considered, in bytes.
	MaxFileSize int64

	// SettleWindow is how long a file's size/mtime must stay stable
	// before the watcher indexes it, to avoid indexing partial writes.
	SettleWindow time.Duration

	// SettlePoll is the interval at which pending watcher events are
	// re-checked for stability.
	SettlePoll time.Duration

	// EventBuffer is the capacity of the event channel.
	EventBuffer int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		ExcludePatterns: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/.DS_Store",
			"**/Thumbs.db",
			"**/*.tmp",
			"**/*.temp",
			"**/.*",
			"**/__pycache__/**",
			"**/dist/**",
			"**/build/**",
			"**/out/**",
		},
		SupportedExtensions: []string{
			// Text documents
			".txt", ".md", ".rtf", ".log",
			// Office documents (indexed by metadata only)
			".docx", ".xlsx", ".pptx", ".pdf",
			// Images (OCR)
			".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp",
			// Source code
			".js", ".ts", ".jsx", ".tsx", ".py", ".java", ".cpp", ".c", ".h",
			".css", ".scss", ".html", ".xml", ".json", ".yaml", ".yml",
			".php", ".rb", ".go", ".rs", ".swift", ".kt", ".dart",
			// Configuration
			".ini", ".conf", ".config", ".env",
		},
		ImageExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp",
		},
		MaxFileSize:  100 * 1024 * 1024, // 100MB
		SettleWindow: 2 * time.Second,
		SettlePoll:   100 * time.Millisecond,
		EventBuffer:  256,
	}
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the engine's lifecycle state for the watched root.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateWatching
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateWatching:
		return "watching"
	default:
		return "unknown"
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// fileAction reports what indexFile did for a path.
type fileAction int

const (
	actionSkipped fileAction = iota // hash unchanged, guaranteed no-op
	actionAdded
	actionUpdated
)

// Engine drives the indexing pipeline: scan, change detection,
// extraction dispatch, persistence and incremental watch updates.
//
// Only one full scan may be in flight at a time; a second IndexFolder
// call fails fast with ErrIndexing rather than queuing.
type Engine struct {
	store     *store.Store
	extractor *extract.Service
	ocr       *ocr.Engine
	config    *Config

	matcher   *glob.Matcher
	supported map[string]bool
	images    map[string]bool

	events chan Event

	// Throttles diagnostic writes to the store's log table so a
	// pathological folder cannot flood it.
	diagLimiter *rate.Limiter

	mu       sync.RWMutex
	state    State
	root     string
	watcher  *Watcher
	indexing bool
}

// New creates an Engine on top of an opened store. cfg may be nil for
// defaults.
func New(s *store.Store, extractor *extract.Service, ocrEngine *ocr.Engine, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	supported := make(map[string]bool, len(cfg.SupportedExtensions))
	for _, ext := range cfg.SupportedExtensions {
		supported[strings.ToLower(ext)] = true
	}
	images := make(map[string]bool, len(cfg.ImageExtensions))
	for _, ext := range cfg.ImageExtensions {
		images[strings.ToLower(ext)] = true
	}

	return &Engine{
		store:       s,
		extractor:   extractor,
		ocr:         ocrEngine,
		config:      cfg,
		matcher:     glob.New(cfg.ExcludePatterns),
		supported:   supported,
		images:      images,
		events:      make(chan Event, cfg.EventBuffer),
		diagLimiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Events returns the channel on which progress and lifecycle events are
// published. Events are dropped, not blocked on, when no one drains the
// channel.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Root returns the currently indexed/watched folder, or "".
func (e *Engine) Root() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root
}

// IsIndexing reports whether a full scan is in flight.
func (e *Engine) IsIndexing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexing
}

// Close stops the watcher. The store is owned by the caller and is not
// closed.
func (e *Engine) Close() error {
	e.StopWatching()
	return nil
}

// =============================================================================
// FULL SCAN
// =============================================================================

// IndexFolder runs a full scan of root, then transitions to watching it
// for incremental updates.
//
// Per-file failures are logged to the diagnostic log and skipped; the
// scan completes with partial results. Fatal failures (invalid root,
// watcher setup) are returned and also published as an ErrorEvent.
func (e *Engine) IndexFolder(ctx context.Context, root string) error {
	e.mu.Lock()
	if e.indexing {
		e.mu.Unlock()
		return ErrIndexing
	}
	e.indexing = true
	e.state = StateScanning
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.indexing = false
		e.mu.Unlock()
	}()

	scanID := uuid.NewString()

	info, err := os.Stat(root)
	if err != nil {
		return e.failScan(scanID, fmt.Errorf("%w: %v", ErrInvalidPath, err))
	}
	if !info.IsDir() {
		return e.failScan(scanID, fmt.Errorf("%w: not a directory", ErrInvalidPath))
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return e.failScan(scanID, fmt.Errorf("%w: %v", ErrInvalidPath, err))
	}

	// Replace any previous watcher before rescanning.
	e.StopWatching()

	e.mu.Lock()
	e.root = root
	e.mu.Unlock()

	e.emit(ScanStartedEvent{ScanID: scanID, Root: root})

	files := e.scanDirectory(root)
	total := len(files)

	e.emit(ProgressEvent{ScanID: scanID, Progress: Progress{Total: total}})

	indexed := 0
	for current, path := range files {
		if err := ctx.Err(); err != nil {
			return e.failScan(scanID, err)
		}

		if _, err := e.indexFile(path); err != nil {
			e.logDiag("error", "failed to index file", map[string]any{
				"path": path, "error": err.Error(),
			})
		} else {
			indexed++
		}

		done := current + 1
		e.emit(ProgressEvent{ScanID: scanID, Progress: Progress{
			Current:     done,
			Total:       total,
			CurrentFile: filepath.Base(path),
			Percentage:  percentage(done, total),
		}})
	}

	if err := e.startWatcher(root); err != nil {
		return e.failScan(scanID, fmt.Errorf("start watcher: %w", err))
	}

	e.mu.Lock()
	e.state = StateWatching
	e.mu.Unlock()

	if err := e.store.SetConfig("lastIndexedFolder", root); err != nil {
		log.Printf("index: persist last folder: %v", err)
	}
	if err := e.store.SetConfig("last_full_index", strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		log.Printf("index: persist scan time: %v", err)
	}

	e.emit(CompletedEvent{ScanID: scanID, Total: total, Indexed: indexed})
	return nil
}

// failScan publishes the fatal error, parks the state machine back at
// Idle and returns the error.
func (e *Engine) failScan(scanID string, err error) error {
	e.emit(ErrorEvent{ScanID: scanID, Err: err})
	e.logDiag("error", "scan failed", map[string]any{"error": err.Error()})

	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()
	return err
}

// scanDirectory enumerates candidate files under root, depth-first.
// Excluded directories are pruned without descending; unreadable
// subtrees are logged and skipped.
func (e *Engine) scanDirectory(root string) []string {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logDiag("warn", "cannot read directory entry", map[string]any{
				"path": path, "error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && e.matcher.Match(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if e.matcher.Match(path) || !e.isSupported(path) {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > e.config.MaxFileSize {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		e.logDiag("warn", "walk aborted", map[string]any{"root": root, "error": err.Error()})
	}
	return files
}

// =============================================================================
// SINGLE FILE
// =============================================================================

// indexFile reads, hashes and persists one file. An unchanged content
// hash is a guaranteed no-op against the store: no write, no event.
func (e *Engine) indexFile(path string) (fileAction, error) {
	info, err := os.Stat(path)
	if err != nil {
		return actionSkipped, fmt.Errorf("stat: %w", err)
	}
	if info.Size() > e.config.MaxFileSize {
		return actionSkipped, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return actionSkipped, fmt.Errorf("read: %w", err)
	}
	hash := contentHash(content)

	existing, err := e.store.GetFile(path)
	if err != nil {
		return actionSkipped, err
	}
	if existing != nil && existing.ContentHash == hash {
		return actionSkipped, nil // already up to date
	}

	ext := strings.ToLower(filepath.Ext(path))

	var text, ocrText string
	if e.images[ext] {
		ocrText = e.ocr.ExtractText(path)
	} else {
		text = e.extractor.Extract(path)
	}

	_, err = e.store.UpsertFile(store.IndexedFile{
		Path:         path,
		Name:         filepath.Base(path),
		Extension:    ext,
		Size:         info.Size(),
		ModifiedDate: info.ModTime().Unix(),
		ContentHash:  hash,
		Content:      text,
		OCRContent:   ocrText,
		IndexDate:    time.Now().Unix(),
	})
	if err != nil {
		return actionSkipped, err
	}

	if existing == nil {
		return actionAdded, nil
	}
	return actionUpdated, nil
}

// ReindexFile runs the single-file pipeline for path. The hash check
// still applies: an unchanged file is a no-op.
func (e *Engine) ReindexFile(path string) error {
	_, err := e.indexFile(path)
	return err
}

// =============================================================================
// FOLDER REMOVAL
// =============================================================================

// RemoveFolder removes an entire folder from the index: the watcher is
// stopped if it is rooted there, then every row under the folder is
// bulk-deleted by path prefix. Returns the number of rows removed.
func (e *Engine) RemoveFolder(folder string) (int64, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	e.mu.Lock()
	watcher := e.watcher
	watchingRemoved := watcher != nil && watcher.root == abs
	e.mu.Unlock()

	if watchingRemoved {
		e.StopWatching()
	}

	n, err := e.store.DeleteFilesByPrefix(abs)
	if err != nil {
		return 0, err
	}
	e.logDiag("info", "removed indexed folder", map[string]any{
		"folder": abs, "files": n,
	})
	return n, nil
}

// =============================================================================
// WATCHER CONTROL
// =============================================================================

func (e *Engine) startWatcher(root string) error {
	w, err := newWatcher(e, root)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Close()
		return err
	}

	e.mu.Lock()
	e.watcher = w
	e.mu.Unlock()

	e.emit(WatcherEvent{State: WatcherStarted, Root: root})
	return nil
}

// StopWatching stops the file system watcher, if any. This is the only
// supported cancellation primitive; an in-flight scan runs to
// completion.
func (e *Engine) StopWatching() {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	if w != nil && e.state == StateWatching {
		e.state = StateIdle
	}
	e.mu.Unlock()

	if w != nil {
		w.Close()
		e.emit(WatcherEvent{State: WatcherStopped, Root: w.root})
	}
}

// =============================================================================
// STATS
// =============================================================================

// Stats summarizes the current index.
type Stats struct {
	TotalFiles  int64
	TotalSize   int64
	LastIndexed time.Time
	State       State
}

// Stats returns index statistics.
func (e *Engine) Stats() (Stats, error) {
	count, err := e.store.GetFileCount()
	if err != nil {
		return Stats{}, err
	}
	size, err := e.store.GetTotalSize()
	if err != nil {
		return Stats{}, err
	}

	var last time.Time
	if v, err := e.store.GetConfig("last_full_index"); err == nil && v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			last = time.Unix(ts, 0)
		}
	}

	return Stats{
		TotalFiles:  count,
		TotalSize:   size,
		LastIndexed: last,
		State:       e.State(),
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// contentHash digests raw bytes with 128-bit BLAKE2b. The hash is used
// only for change detection, not integrity.
func contentHash(content []byte) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// Only reachable with an invalid size/key; 16 bytes is valid.
		panic(err)
	}
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Engine) isSupported(path string) bool {
	return e.supported[strings.ToLower(filepath.Ext(path))]
}

func percentage(current, total int) int {
	if total <= 0 {
		return 0
	}
	return current * 100 / total
}

// emit publishes an event without blocking; events are dropped when the
// buffer is full and no subscriber is draining.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// logDiag writes to the store's diagnostic log, rate-limited, and
// always mirrors to the process log.
func (e *Engine) logDiag(level, message string, details map[string]any) {
	log.Printf("index: [%s] %s %v", level, message, details)
	if !e.diagLimiter.Allow() {
		return
	}
	if err := e.store.AddLog(level, message, details); err != nil {
		log.Printf("index: diagnostic log write failed: %v", err)
	}
}
