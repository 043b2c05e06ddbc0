// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filedex TUI.
//
// SourceView renders file content with chroma syntax highlighting and
// line numbers; RenderMarkdown renders markdown through glamour. Both
// degrade to plain text when rendering fails.
package components
