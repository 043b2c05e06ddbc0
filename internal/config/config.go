// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/filedex/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete filedex configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Database configuration
	Database DatabaseConfig `toml:"database" json:"database"`

	// Indexing configuration
	Indexing IndexingConfig `toml:"indexing" json:"indexing"`

	// OCR configuration
	OCR OCRConfig `toml:"ocr" json:"ocr"`

	// Search configuration
	Search SearchConfig `toml:"search" json:"search"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// DatabaseConfig locates the content store.
type DatabaseConfig struct {
	// Path is the SQLite database file (empty = ~/.filedex/index.db)
	Path string `toml:"path" json:"path"`
}

// IndexingConfig controls the scan and watch pipeline.
type IndexingConfig struct {
	// ExcludePatterns are glob patterns skipped during scans and
	// ignored by the watcher. `**` spans path segments, `*` and `?`
	// stay within one.
	ExcludePatterns []string `toml:"exclude_patterns" json:"exclude_patterns"`
	// ExtraExtensions extends the built-in supported extension set,
	// lower-case with the leading dot.
	ExtraExtensions []string `toml:"extra_extensions" json:"extra_extensions"`
	// MaxFileSizeMB is the largest file considered, in megabytes.
	MaxFileSizeMB int64 `toml:"max_file_size_mb" json:"max_file_size_mb"`
	// SettleWindowMs is how long a changed file must hold stable before
	// the watcher indexes it.
	SettleWindowMs int `toml:"settle_window_ms" json:"settle_window_ms"`
	// SettlePollMs is the stability re-check interval.
	SettlePollMs int `toml:"settle_poll_ms" json:"settle_poll_ms"`
}

// OCRConfig controls image text recognition.
type OCRConfig struct {
	// Languages is the ordered Tesseract language set, e.g. ["eng","fra"]
	Languages []string `toml:"languages" json:"languages"`
}

// SearchConfig controls result shaping.
type SearchConfig struct {
	// HighlightStart/HighlightEnd wrap matched terms in snippets.
	HighlightStart string `toml:"highlight_start" json:"highlight_start"`
	HighlightEnd   string `toml:"highlight_end" json:"highlight_end"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact result layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Database: DatabaseConfig{
			Path: "", // resolved to ~/.filedex/index.db at load
		},

		Indexing: IndexingConfig{
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
			MaxFileSizeMB:  100,
			SettleWindowMs: 2000,
			SettlePollMs:   100,
		},

		OCR: OCRConfig{
			Languages: []string{"eng", "fra"},
		},

		Search: SearchConfig{
			HighlightStart: "<mark>",
			HighlightEnd:   "</mark>",
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the filedex configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".filedex"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultDatabasePath returns the default SQLite file location.
func DefaultDatabasePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadJSON(cfg, path); err != nil {
				return nil, fmt.Errorf("load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("load TOML config from %s: %w", path, err)
		}
	}
	return finishLoad(cfg)
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() error {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Database.Path == "" {
		path, err := DefaultDatabasePath()
		if err != nil {
			return err
		}
		c.Database.Path = path
	}
	if len(c.Indexing.ExcludePatterns) == 0 {
		c.Indexing.ExcludePatterns = defaults.Indexing.ExcludePatterns
	}
	if c.Indexing.MaxFileSizeMB <= 0 {
		c.Indexing.MaxFileSizeMB = defaults.Indexing.MaxFileSizeMB
	}
	if c.Indexing.SettleWindowMs <= 0 {
		c.Indexing.SettleWindowMs = defaults.Indexing.SettleWindowMs
	}
	if c.Indexing.SettlePollMs <= 0 {
		c.Indexing.SettlePollMs = defaults.Indexing.SettlePollMs
	}
	if len(c.OCR.Languages) == 0 {
		c.OCR.Languages = defaults.OCR.Languages
	}
	if c.Search.HighlightStart == "" || c.Search.HighlightEnd == "" {
		c.Search.HighlightStart = defaults.Search.HighlightStart
		c.Search.HighlightEnd = defaults.Search.HighlightEnd
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies FILEDEX_* environment variables over the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FILEDEX_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FILEDEX_OCR_LANGUAGES"); v != "" {
		c.OCR.Languages = splitList(v)
	}
	if v := os.Getenv("FILEDEX_EXCLUDE_PATTERNS"); v != "" {
		c.Indexing.ExcludePatterns = splitList(v)
	}
	if v := os.Getenv("FILEDEX_MAX_FILE_SIZE_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Indexing.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv("FILEDEX_SETTLE_WINDOW_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Indexing.SettleWindowMs = n
		}
	}
	if v := os.Getenv("FILEDEX_THEME"); v != "" {
		c.UI.Theme = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("invalid theme %q (want dark, light or auto)", c.UI.Theme)
	}

	for _, ext := range c.Indexing.ExtraExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q (must start with a dot)", ext)
		}
	}

	if c.Indexing.SettlePollMs > c.Indexing.SettleWindowMs {
		return fmt.Errorf("settle_poll_ms (%d) exceeds settle_window_ms (%d)",
			c.Indexing.SettlePollMs, c.Indexing.SettleWindowMs)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the TOML config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a specific file, TOML or JSON
// by extension.
func SaveToPath(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON config: %w", err)
		}
	} else {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return fmt.Errorf("encode TOML config: %w", err)
		}
		data = []byte(b.String())
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
