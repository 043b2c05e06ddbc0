// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, []string{"eng", "fra"}, cfg.OCR.Languages)
	require.Equal(t, int64(100), cfg.Indexing.MaxFileSizeMB)
	require.Equal(t, 2000, cfg.Indexing.SettleWindowMs)
	require.Contains(t, cfg.Indexing.ExcludePatterns, "**/node_modules/**")
	require.Equal(t, "<mark>", cfg.Search.HighlightStart)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = "2.0.0"

[database]
path = "/tmp/custom.db"

[indexing]
max_file_size_mb = 10
settle_window_ms = 500

[ocr]
languages = ["deu"]

[ui]
theme = "light"
`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", cfg.Version)
	require.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	require.Equal(t, int64(10), cfg.Indexing.MaxFileSizeMB)
	require.Equal(t, 500, cfg.Indexing.SettleWindowMs)
	require.Equal(t, []string{"deu"}, cfg.OCR.Languages)
	require.Equal(t, "light", cfg.UI.Theme)

	// Unset fields fall back to defaults.
	require.Equal(t, 100, cfg.Indexing.SettlePollMs)
	require.NotEmpty(t, cfg.Indexing.ExcludePatterns)
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database": {"path": "/tmp/from-json.db"},
		"ui": {"theme": "auto"}
	}`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-json.db", cfg.Database.Path)
	require.Equal(t, "auto", cfg.UI.Theme)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FILEDEX_DB_PATH", "/env/index.db")
	t.Setenv("FILEDEX_OCR_LANGUAGES", "eng, spa")
	t.Setenv("FILEDEX_MAX_FILE_SIZE_MB", "42")
	t.Setenv("FILEDEX_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	require.Equal(t, "/env/index.db", cfg.Database.Path)
	require.Equal(t, []string{"eng", "spa"}, cfg.OCR.Languages)
	require.Equal(t, int64(42), cfg.Indexing.MaxFileSizeMB)
	require.Equal(t, "light", cfg.UI.Theme)
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Indexing.ExtraExtensions = []string{"txt"}
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Indexing.SettlePollMs = 5000
	require.Error(t, cfg.Validate())
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Database.Path = "/tmp/rt.db"
	cfg.OCR.Languages = []string{"eng", "ita"}

	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveToPath(cfg, tomlPath))
	loaded, err := LoadFromPath(tomlPath)
	require.NoError(t, err)
	require.Equal(t, cfg.Database.Path, loaded.Database.Path)
	require.Equal(t, cfg.OCR.Languages, loaded.OCR.Languages)

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, SaveToPath(cfg, jsonPath))
	loaded, err = LoadFromPath(jsonPath)
	require.NoError(t, err)
	require.Equal(t, cfg.Database.Path, loaded.Database.Path)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
