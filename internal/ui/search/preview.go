// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// preview.go - Preview pane content rendering.
package search

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jeranaias/filedex/internal/ui/components"
)

func newPreviewViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// renderPreview renders file content for the preview pane. Markdown
// goes through glamour; everything else gets chroma highlighting with
// line numbers.
func (m Model) renderPreview(path, content string) string {
	if content == "" {
		return m.theme.ResultMeta.Render("(empty file)")
	}

	_, previewW, _ := m.paneSizes()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return components.RenderMarkdown(content, previewW-4)
	default:
		view := components.NewSourceView(path, content)
		view.MaxWidth = previewW
		return view.Render()
	}
}
