// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for filedex.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - IndexingConfig: Scan and watcher behavior
//   - OCRConfig: Tesseract language selection
//   - SearchConfig: Snippet highlight markers
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FILEDEX_*)
//   - ~/.filedex/config.toml
//   - ~/.filedex/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	dbPath := cfg.Database.Path
//	langs := cfg.OCR.Languages
package config
