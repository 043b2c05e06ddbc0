// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/filedex/internal/config"
	"github.com/jeranaias/filedex/internal/search"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")
	cfg.Indexing.SettleWindowMs = 100
	cfg.Indexing.SettlePollMs = 20

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_IndexThenSearch(t *testing.T) {
	a := newTestApp(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("hello world"), 0644))

	require.NoError(t, a.IndexFolder(context.Background(), root))

	results, err := a.Search.Search(search.Options{Text: "hello"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "notes.md", results[0].File.Name)

	last, err := a.LastIndexedFolder()
	require.NoError(t, err)
	require.Equal(t, a.Index.Root(), last)
}

func TestApp_RemoveIndexedFolder(t *testing.T) {
	a := newTestApp(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0644))
	require.NoError(t, a.IndexFolder(context.Background(), root))

	n, err := a.RemoveIndexedFolder(root)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestApp_SettingsRoundTrip(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.UpdateSettings(Settings{
		"theme":  "light",
		"search": map[string]any{"fuzzy": true, "limit": float64(25)},
	}))

	settings, err := a.GetSettings("theme", "search", "missing")
	require.NoError(t, err)
	require.Equal(t, "light", settings["theme"])
	require.Equal(t, map[string]any{"fuzzy": true, "limit": float64(25)}, settings["search"])
	require.NotContains(t, settings, "missing")
}

func TestApp_SettingsSectionMerge(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.UpdateSettings(Settings{
		"search": map[string]any{"fuzzy": true, "limit": float64(25)},
	}))
	require.NoError(t, a.UpdateSettings(Settings{
		"search": map[string]any{"limit": float64(10)},
	}))

	settings, err := a.GetSettings("search")
	require.NoError(t, err)
	// Untouched sibling fields survive a partial update.
	require.Equal(t, map[string]any{"fuzzy": true, "limit": float64(10)}, settings["search"])
}

func TestApp_OCRLanguageSettingAppliesLive(t *testing.T) {
	a := newTestApp(t)

	require.NoError(t, a.UpdateSettings(Settings{
		"ocrLanguages": []any{"deu", "spa"},
	}))
	require.Equal(t, []string{"deu", "spa"}, a.OCR.Languages())
}

func TestApp_OpenFile_Missing(t *testing.T) {
	a := newTestApp(t)
	require.Error(t, a.OpenFile(filepath.Join(t.TempDir(), "ghost.txt")))
	require.Error(t, a.RevealFile(filepath.Join(t.TempDir(), "ghost.txt")))
}
