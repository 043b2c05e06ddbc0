// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceView_Render(t *testing.T) {
	v := NewSourceView("main.go", "package main\n\nfunc main() {}\n")
	out := v.Render()

	require.Contains(t, out, "1")
	require.Contains(t, out, "3")
	// Trailing newline must not produce a phantom empty line 4.
	require.Equal(t, 3, len(strings.Split(out, "\n")))
}

func TestSourceView_CapsLines(t *testing.T) {
	content := strings.Repeat("line\n", 500)
	v := NewSourceView("big.txt", content)
	v.MaxLines = 10

	out := v.Render()
	require.Equal(t, 10, len(strings.Split(out, "\n")))
}

func TestHighlightSource_UnknownFallsBack(t *testing.T) {
	content := "no recognizable language here"
	out := HighlightSource(content, "file.zzz")
	require.NotEmpty(t, out)
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome *body* text.", 60)
	require.Contains(t, out, "Title")
}
