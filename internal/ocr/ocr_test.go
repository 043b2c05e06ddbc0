// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These tests avoid touching the real Tesseract engine: the client is
// created lazily, so language bookkeeping and text cleanup are testable
// without tesseract installed.

func TestCleanText(t *testing.T) {
	require.Equal(t, "one two three", cleanText("one\n\ntwo\t three\n"))
	require.Equal(t, "", cleanText("  \n\t "))
}

func TestLanguages_DefaultAndCopy(t *testing.T) {
	e := New()
	require.Equal(t, DefaultLanguages, e.Languages())

	langs := e.Languages()
	langs[0] = "mutated"
	require.Equal(t, DefaultLanguages, e.Languages())
}

func TestSetLanguages(t *testing.T) {
	e := New("eng")
	e.SetLanguages([]string{"deu", "spa"})
	require.Equal(t, []string{"deu", "spa"}, e.Languages())

	// Empty set falls back to the defaults.
	e.SetLanguages(nil)
	require.Equal(t, DefaultLanguages, e.Languages())
}

func TestExtractText_MissingFile(t *testing.T) {
	e := New("eng")
	defer e.Close()
	require.Empty(t, e.ExtractText("/no/such/image.png"))
}

func TestClose_WithoutInit(t *testing.T) {
	e := New("eng")
	require.NoError(t, e.Close())
}
