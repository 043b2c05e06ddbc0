// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testFile(path, content string) IndexedFile {
	now := time.Now().Unix()
	return IndexedFile{
		Path:         path,
		Name:         filepath.Base(path),
		Extension:    strings.ToLower(filepath.Ext(path)),
		Size:         int64(len(content)),
		ModifiedDate: now,
		ContentHash:  "hash-" + content,
		Content:      content,
		IndexDate:    now,
	}
}

// =============================================================================
// FILE CRUD
// =============================================================================

func TestUpsertFile_ReplacesByPath(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpsertFile(testFile("/docs/notes.md", "hello world"))
	require.NoError(t, err)

	// Same path, different bytes: must replace in place, never duplicate.
	_, err = s.UpsertFile(testFile("/docs/notes.md", "goodbye world"))
	require.NoError(t, err)

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	f, err := s.GetFile("/docs/notes.md")
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Equal(t, "goodbye world", f.Content)
	require.Equal(t, "hash-goodbye world", f.ContentHash)

	// The FTS projection must follow the replacement.
	rows, err := s.Search(Query{Match: `"goodbye"`})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = s.Search(Query{Match: `"hello"`})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestGetFile_Missing(t *testing.T) {
	s := openTestStore(t)
	f, err := s.GetFile("/nope.txt")
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestGetFileHash(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertFile(testFile("/a.txt", "abc"))
	require.NoError(t, err)

	hash, err := s.GetFileHash("/a.txt")
	require.NoError(t, err)
	require.Equal(t, "hash-abc", hash)

	hash, err = s.GetFileHash("/missing.txt")
	require.NoError(t, err)
	require.Empty(t, hash)
}

func TestDeleteFile_RemovesSearchEntry(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertFile(testFile("/a.txt", "unique needle text"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteFile("/a.txt"))

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.Zero(t, count)

	rows, err := s.Search(Query{Match: `"needle"`})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDeleteFilesByPrefix(t *testing.T) {
	s := openTestStore(t)
	for _, p := range []string{"/root/a/one.txt", "/root/a/two.txt", "/root/a/sub/three.txt"} {
		_, err := s.UpsertFile(testFile(p, "inside content"))
		require.NoError(t, err)
	}
	// Sibling folder sharing the name prefix must survive.
	_, err := s.UpsertFile(testFile("/root/ab/four.txt", "sibling content"))
	require.NoError(t, err)

	n, err := s.DeleteFilesByPrefix("/root/a")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// FTS entries for the deleted rows must be gone too.
	rows, err := s.Search(Query{Match: `"inside"`})
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = s.Search(Query{Match: `"sibling"`})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestGetAllFiles_OrderedByModified(t *testing.T) {
	s := openTestStore(t)

	old := testFile("/old.txt", "old")
	old.ModifiedDate = 1000
	recent := testFile("/new.txt", "new")
	recent.ModifiedDate = 2000

	_, err := s.UpsertFile(old)
	require.NoError(t, err)
	_, err = s.UpsertFile(recent)
	require.NoError(t, err)

	files, err := s.GetAllFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "/new.txt", files[0].Path)
	require.Equal(t, "/old.txt", files[1].Path)
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearch_SnippetContainsHighlightMarker(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertFile(testFile("/doc.txt", "the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)

	rows, err := s.Search(Query{Match: `"fox"`})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Contains(t, rows[0].Snippet, "<mark>fox</mark>")
}

func TestSearch_CustomHighlightMarker(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertFile(testFile("/doc.txt", "alpha beta gamma"))
	require.NoError(t, err)

	rows, err := s.Search(Query{Match: `"beta"`, HighlightStart: "[", HighlightEnd: "]"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Contains(t, rows[0].Snippet, "[beta]")
}

func TestSearch_FilterComposition(t *testing.T) {
	s := openTestStore(t)

	md := testFile("/notes/a.md", "report findings")
	md.ModifiedDate = 1500
	_, err := s.UpsertFile(md)
	require.NoError(t, err)

	txt := testFile("/notes/b.txt", "report findings")
	txt.ModifiedDate = 1500
	_, err = s.UpsertFile(txt)
	require.NoError(t, err)

	oldMd := testFile("/notes/c.md", "report findings")
	oldMd.ModifiedDate = 100
	_, err = s.UpsertFile(oldMd)
	require.NoError(t, err)

	start, end := int64(1000), int64(2000)
	rows, err := s.Search(Query{
		Match:      `"report"`,
		Extensions: []string{".md"},
		DateStart:  &start,
		DateEnd:    &end,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "/notes/a.md", rows[0].File.Path)
}

func TestSearch_MatchesFileName(t *testing.T) {
	s := openTestStore(t)
	f := testFile("/img/invoice.txt", "")
	f.Content = "totally unrelated body"
	_, err := s.UpsertFile(f)
	require.NoError(t, err)

	rows, err := s.Search(Query{Match: `"invoice"`})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSearch_ScoreAscending(t *testing.T) {
	s := openTestStore(t)

	strong := testFile("/strong.txt", "needle needle needle needle")
	weak := testFile("/weak.txt", "needle surrounded by lots of other filler words here")
	_, err := s.UpsertFile(strong)
	require.NoError(t, err)
	_, err = s.UpsertFile(weak)
	require.NoError(t, err)

	rows, err := s.Search(Query{Match: `"needle"`})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Lower bm25 score is the better match, sorted first.
	require.LessOrEqual(t, rows[0].Score, rows[1].Score)
	require.Equal(t, "/strong.txt", rows[0].File.Path)
}

func TestSearch_ResultCap(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 60; i++ {
		f := testFile(filepath.Join("/many", "f"+string(rune('a'+i%26))+string(rune('a'+i/26))+".txt"), "common term")
		_, err := s.UpsertFile(f)
		require.NoError(t, err)
	}
	rows, err := s.Search(Query{Match: `"common"`})
	require.NoError(t, err)
	require.LessOrEqual(t, len(rows), DefaultResultLimit)
}

func TestSearch_EmptyMatchRejected(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Search(Query{Match: "  "})
	require.ErrorIs(t, err, ErrEmptyMatch)
}

func TestGetSuggestions(t *testing.T) {
	s := openTestStore(t)
	for _, p := range []string{"/a/Notes.md", "/b/notebook.txt", "/c/todo.txt"} {
		_, err := s.UpsertFile(testFile(p, "x"))
		require.NoError(t, err)
	}

	names, err := s.GetSuggestions("note", 5)
	require.NoError(t, err)
	require.Len(t, names, 2)
	require.Contains(t, names, "Notes.md")
	require.Contains(t, names, "notebook.txt")
}

// =============================================================================
// CONFIG + LOGS
// =============================================================================

func TestConfigRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetConfig("missing")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, s.SetConfig("theme", "dark"))
	require.NoError(t, s.SetConfig("theme", "light")) // last write wins

	v, err = s.GetConfig("theme")
	require.NoError(t, err)
	require.Equal(t, "light", v)
}

func TestLogs_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.AddLog("error", "first", map[string]string{"path": "/a"}))
	require.NoError(t, s.AddLog("info", "second", nil))

	entries, err := s.GetLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "second", entries[0].Message)
	require.Equal(t, "first", entries[1].Message)
	require.Contains(t, entries[1].Details, "/a")
}

func TestTotalSize(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpsertFile(testFile("/a.txt", "12345"))
	require.NoError(t, err)
	_, err = s.UpsertFile(testFile("/b.txt", "123"))
	require.NoError(t, err)

	total, err := s.GetTotalSize()
	require.NoError(t, err)
	require.EqualValues(t, 8, total)
}
