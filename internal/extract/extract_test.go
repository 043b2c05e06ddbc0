// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtract_PlainText(t *testing.T) {
	s := New()
	path := writeTemp(t, "a.txt", "hello\r\nworld\ttabbed\n")

	got := s.Extract(path)
	require.Equal(t, "hello\nworld  tabbed", got)
}

func TestExtract_HTML(t *testing.T) {
	s := New()
	path := writeTemp(t, "page.html", `<html><head>
		<script>var x = "ignore me";</script>
		<style>body { color: red; }</style>
		</head><body><h1>Title</h1><p>Tom &amp; Jerry &lt;3&nbsp;&quot;quoted&quot; &#39;s</p></body></html>`)

	got := s.Extract(path)
	require.Equal(t, `Title Tom & Jerry <3 "quoted" 's`, got)
}

func TestExtract_XML(t *testing.T) {
	s := New()
	path := writeTemp(t, "doc.xml", `<?xml version="1.0"?>
		<!-- a comment -->
		<root><item>first</item><item>second</item></root>`)

	got := s.Extract(path)
	require.Equal(t, "first second", got)
}

func TestExtract_JSON(t *testing.T) {
	s := New()
	path := writeTemp(t, "data.json", `{"title":"report","count":3,"done":true,"nested":{"tags":["a","b"]},"pi":3.5}`)

	got := s.Extract(path)
	require.Equal(t, "report 3 true a b 3.5", got)
}

func TestExtract_JSONParseFailureFallsBackToRaw(t *testing.T) {
	s := New()
	path := writeTemp(t, "bad.json", `{"broken": `)

	got := s.Extract(path)
	require.Equal(t, `{"broken":`, got)
}

func TestExtract_RTF(t *testing.T) {
	s := New()
	path := writeTemp(t, "doc.rtf", `{\rtf1\ansi{\fonttbl\f0 Arial;}\f0 Hello \b bold\b0  world\par}`)

	got := s.Extract(path)
	require.Contains(t, got, "Hello")
	require.Contains(t, got, "world")
	require.NotContains(t, got, `\rtf`)
	require.NotContains(t, got, `\b`)
	require.NotContains(t, got, "{")
}

func TestExtract_INI(t *testing.T) {
	s := New()
	path := writeTemp(t, "settings.ini", `
# comment line
; another comment
[section]
key=value one
empty=
other = value two
noequals line
`)

	got := s.Extract(path)
	require.Equal(t, "value one value two", got)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	s := New()
	path := writeTemp(t, "blob.bin", "\x00\x01\x02")

	require.Empty(t, s.Extract(path))
	require.False(t, s.IsSupported(path))
}

func TestExtract_MissingFile(t *testing.T) {
	s := New()
	require.Empty(t, s.Extract("/does/not/exist.txt"))
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	s := New()
	path := writeTemp(t, "NOTES.TXT", "upper case name")

	require.Equal(t, "upper case name", s.Extract(path))
	require.True(t, s.IsSupported(path))
}
