// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("nested"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "nested", string(data))
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "hello", TruncateString("hello", 10))
	require.Equal(t, "hell...", TruncateString("hello world", 7))
	require.Equal(t, "", TruncateString("hello", 0))

	// Double-width characters count as 2 columns.
	require.Equal(t, "日本", TruncateString("日本", 4))
	require.NotEqual(t, "日本語テキスト", TruncateString("日本語テキスト", 6))
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "héllo", TruncateRunes("héllo", 5))
	require.Equal(t, "hél", TruncateRunes("héllo", 3))
	require.Equal(t, "", TruncateRunes("héllo", 0))
}

func TestSafeSubstring(t *testing.T) {
	require.Equal(t, "llo", SafeSubstring("héllo", 2, 5))
	require.Equal(t, "héllo", SafeSubstring("héllo", 0, 100))
	require.Equal(t, "", SafeSubstring("héllo", 4, 2))
	require.Equal(t, "", SafeSubstring("héllo", 9, 12))
}

func TestStringWidth(t *testing.T) {
	require.Equal(t, 5, StringWidth("hello"))
	require.Equal(t, 4, StringWidth("日本"))
}

func TestRuneLen(t *testing.T) {
	require.Equal(t, 5, RuneLen("héllo"))
	require.Equal(t, 2, RuneLen("日本"))
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512 B", FormatBytes(512))
	require.Equal(t, "1.0 KB", FormatBytes(1024))
	require.Equal(t, "1.5 MB", FormatBytes(1536*1024))
	require.Equal(t, "2.0 GB", FormatBytes(2*1024*1024*1024))
}

func TestFormatCount(t *testing.T) {
	require.Equal(t, "1 file", FormatCount(1, "file", "files"))
	require.Equal(t, "3 files", FormatCount(3, "file", "files"))
	require.Equal(t, "0 files", FormatCount(0, "file", "files"))
}
