// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the filedex application.
//
// This package contains common helper functions used throughout the
// application for string manipulation, display formatting, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateString: Width-aware string truncation with ellipsis
//   - SafeSubstring: UTF-8 safe substring by rune indices
//
// Display Formatting:
//   - FormatBytes: Human-readable byte counts
//   - FormatCount: Count with singular/plural noun
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long paths safely for display
//	display := util.TruncateString(longPath, 50)
//
//	// Render index sizes
//	s := util.FormatBytes(totalSize)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
