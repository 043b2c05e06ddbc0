// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app wires the store, extraction, OCR, indexing and search
// components into the single facade consumed by the presentation
// layer.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jeranaias/filedex/internal/config"
	"github.com/jeranaias/filedex/internal/extract"
	"github.com/jeranaias/filedex/internal/index"
	"github.com/jeranaias/filedex/internal/ocr"
	"github.com/jeranaias/filedex/internal/search"
	"github.com/jeranaias/filedex/internal/store"
)

// App owns the shared component instances for one process. The store
// is constructed once and passed by reference to the indexing and
// search engines.
type App struct {
	Config *config.Config

	Store   *store.Store
	Index   *index.Engine
	Search  *search.Engine
	OCR     *ocr.Engine
	Extract *extract.Service
}

// New opens the store at the configured path and wires all components.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	extractor := extract.New()
	ocrEngine := ocr.New(cfg.OCR.Languages...)

	idxCfg := index.DefaultConfig()
	idxCfg.ExcludePatterns = cfg.Indexing.ExcludePatterns
	idxCfg.SupportedExtensions = append(idxCfg.SupportedExtensions, cfg.Indexing.ExtraExtensions...)
	idxCfg.MaxFileSize = cfg.Indexing.MaxFileSizeMB * 1024 * 1024
	idxCfg.SettleWindow = time.Duration(cfg.Indexing.SettleWindowMs) * time.Millisecond
	idxCfg.SettlePoll = time.Duration(cfg.Indexing.SettlePollMs) * time.Millisecond

	searcher := search.New(s)
	searcher.SetHighlightMarkers(cfg.Search.HighlightStart, cfg.Search.HighlightEnd)

	return &App{
		Config:  cfg,
		Store:   s,
		Index:   index.New(s, extractor, ocrEngine, idxCfg),
		Search:  searcher,
		OCR:     ocrEngine,
		Extract: extractor,
	}, nil
}

// Close releases the watcher, the OCR client and the store.
func (a *App) Close() error {
	a.Index.Close()
	a.OCR.Close()
	return a.Store.Close()
}

// =============================================================================
// INDEXING OPERATIONS
// =============================================================================

// IndexFolder scans path and watches it for changes.
func (a *App) IndexFolder(ctx context.Context, path string) error {
	return a.Index.IndexFolder(ctx, path)
}

// RemoveIndexedFolder drops every indexed file under path and returns
// the number of rows removed.
func (a *App) RemoveIndexedFolder(path string) (int64, error) {
	return a.Index.RemoveFolder(path)
}

// LastIndexedFolder returns the most recently indexed folder, or "".
func (a *App) LastIndexedFolder() (string, error) {
	return a.Store.GetConfig("lastIndexedFolder")
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the durable, user-tunable state kept in the store's
// key-value table, separate from the process config file.
type Settings map[string]any

// GetSettings assembles the stored settings. Values persisted as JSON
// decode to their original shape; plain strings stay strings.
func (a *App) GetSettings(keys ...string) (Settings, error) {
	settings := Settings{}
	for _, key := range keys {
		raw, err := a.Store.GetConfig(key)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		settings[key] = v
	}
	return settings, nil
}

// UpdateSettings merges partial into the stored settings, key by key.
// When both the stored and incoming values are JSON objects the merge
// is per-field; otherwise the incoming value replaces the stored one.
// The ocrLanguages key is applied to the live OCR engine immediately.
func (a *App) UpdateSettings(partial Settings) error {
	for key, value := range partial {
		merged := value

		if incoming, ok := value.(map[string]any); ok {
			raw, err := a.Store.GetConfig(key)
			if err != nil {
				return err
			}
			var stored map[string]any
			if raw != "" && json.Unmarshal([]byte(raw), &stored) == nil && stored != nil {
				for k, v := range incoming {
					stored[k] = v
				}
				merged = stored
			}
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode setting %q: %w", key, err)
		}
		if err := a.Store.SetConfig(key, string(data)); err != nil {
			return err
		}

		if key == "ocrLanguages" {
			a.applyOCRLanguages(merged)
		}
	}
	return nil
}

func (a *App) applyOCRLanguages(value any) {
	list, ok := value.([]any)
	if !ok {
		return
	}
	var langs []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			langs = append(langs, s)
		}
	}
	if len(langs) > 0 {
		a.OCR.SetLanguages(langs)
	}
}

// =============================================================================
// SHELL INTEGRATION
// =============================================================================

// OpenFile opens path with the platform's default handler.
func (a *App) OpenFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return startShellCommand(openCommand(path))
}

// RevealFile shows path in the platform file manager.
func (a *App) RevealFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return startShellCommand(revealCommand(path))
}

func openCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

func revealCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", "-R", path)
	case "windows":
		return exec.Command("explorer", "/select,", path)
	default:
		// No portable "reveal" on Linux; open the containing directory.
		return exec.Command("xdg-open", filepath.Dir(path))
	}
}

func startShellCommand(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", cmd.Path, err)
	}
	// Detach; the handler outlives this process.
	go cmd.Wait()
	return nil
}
