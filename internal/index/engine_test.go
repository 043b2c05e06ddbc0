// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/filedex/internal/extract"
	"github.com/jeranaias/filedex/internal/ocr"
	"github.com/jeranaias/filedex/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := DefaultConfig()
	cfg.SettleWindow = 150 * time.Millisecond
	cfg.SettlePoll = 20 * time.Millisecond

	e := New(s, extract.New(), ocr.New(), cfg)
	t.Cleanup(func() { e.Close() })
	return e, s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIndexFolder_EndToEnd(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "a.txt"), "the quick brown fox")
	writeFile(t, filepath.Join(root, "sub", "b.md"), "lazy dog notes")
	writeFile(t, filepath.Join(root, "node_modules", "dep.txt"), "should be excluded")
	writeFile(t, filepath.Join(root, "blob.bin"), "unsupported")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	require.Equal(t, StateWatching, e.State())

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	rows, err := s.Search(store.Query{Match: "fox"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "a.txt", rows[0].File.Name)

	last, err := s.GetConfig("lastIndexedFolder")
	require.NoError(t, err)
	require.Equal(t, e.Root(), last)
}

func TestIndexFolder_EmitsLifecycleEvents(t *testing.T) {
	e, _ := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()

	var started, progressed, completed bool
	for {
		select {
		case ev := <-e.Events():
			switch ev := ev.(type) {
			case ScanStartedEvent:
				started = true
			case ProgressEvent:
				progressed = true
			case CompletedEvent:
				completed = true
				require.Equal(t, 1, ev.Total)
				require.Equal(t, 1, ev.Indexed)
			}
		default:
			require.True(t, started, "missing scan started event")
			require.True(t, progressed, "missing progress event")
			require.True(t, completed, "missing completed event")
			return
		}
	}
}

func TestIndexFolder_UnchangedFileIsNoOp(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	writeFile(t, path, "stable content")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()

	before, err := s.GetFile(path)
	require.NoError(t, err)
	require.NotNil(t, before)

	// An INSERT OR REPLACE assigns a fresh row ID, so an unchanged ID
	// proves the second scan never wrote the row.
	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()

	after, err := s.GetFile(path)
	require.NoError(t, err)
	require.Equal(t, before.ID, after.ID)
}

func TestIndexFolder_ChangedContentReplacesRow(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	writeFile(t, path, "first version")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()

	writeFile(t, path, "second version entirely")
	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	f, err := s.GetFile(path)
	require.NoError(t, err)
	require.Contains(t, f.Content, "second version")
}

func TestIndexFolder_BusyRejectsConcurrentScan(t *testing.T) {
	e, _ := newTestEngine(t)

	e.mu.Lock()
	e.indexing = true
	e.mu.Unlock()

	err := e.IndexFolder(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrIndexing)
}

func TestIndexFolder_InvalidRoot(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.IndexFolder(context.Background(), "/no/such/folder")
	require.ErrorIs(t, err, ErrInvalidPath)
	require.Equal(t, StateIdle, e.State())

	file := filepath.Join(t.TempDir(), "plain.txt")
	writeFile(t, file, "not a directory")
	err = e.IndexFolder(context.Background(), file)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestScanDirectory_PrunesExcludedAndUnsupported(t *testing.T) {
	e, _ := newTestEngine(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "keep.go"), "package main")
	writeFile(t, filepath.Join(root, "notes.md"), "# notes")
	writeFile(t, filepath.Join(root, ".git", "config"), "excluded")
	writeFile(t, filepath.Join(root, "dist", "app.js"), "excluded")
	writeFile(t, filepath.Join(root, "junk.tmp"), "excluded")
	writeFile(t, filepath.Join(root, "image.iso"), "unsupported")

	files := e.scanDirectory(root)
	require.ElementsMatch(t, []string{
		filepath.Join(root, "keep.go"),
		filepath.Join(root, "notes.md"),
	}, files)
}

func TestRemoveFolder(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "beta")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	n, err := e.RemoveFolder(root)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, StateIdle, e.State())

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestReindexFile(t *testing.T) {
	e, s := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeFile(t, path, "reindex me")

	require.NoError(t, e.ReindexFile(path))

	f, err := s.GetFile(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	require.Equal(t, "reindex me", f.Content)
}

func TestStats(t *testing.T) {
	e, _ := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "12345")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	stats, err := e.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalFiles)
	require.Equal(t, int64(5), stats.TotalSize)
	require.False(t, stats.LastIndexed.IsZero())
	require.Equal(t, StateWatching, stats.State)
}

func TestPercentage(t *testing.T) {
	require.Equal(t, 0, percentage(0, 0))
	require.Equal(t, 0, percentage(1, 0))
	require.Equal(t, 33, percentage(1, 3))
	require.Equal(t, 100, percentage(3, 3))
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_IndexesNewFile(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "seed.txt"), "seed")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	added := filepath.Join(root, "added.txt")
	writeFile(t, added, "fresh arrival")

	require.Eventually(t, func() bool {
		f, err := s.GetFile(added)
		return err == nil && f != nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_IndexesChangedFile(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	path := filepath.Join(root, "doc.txt")
	writeFile(t, path, "original")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	writeFile(t, path, "rewritten with more words")

	require.Eventually(t, func() bool {
		f, err := s.GetFile(path)
		return err == nil && f != nil && f.Content == "rewritten with more words"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_RemovesDeletedFile(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	path := filepath.Join(root, "doomed.txt")
	writeFile(t, path, "short lived")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		f, err := s.GetFile(path)
		return err == nil && f == nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_CoversNewSubdirectory(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "seed.txt"), "seed")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	nested := filepath.Join(root, "newdir", "inside.txt")
	writeFile(t, nested, "born after the scan")

	require.Eventually(t, func() bool {
		f, err := s.GetFile(nested)
		return err == nil && f != nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_IgnoresExcludedAndUnsupported(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "seed.txt"), "seed")

	require.NoError(t, e.IndexFolder(context.Background(), root))

	tracked := filepath.Join(root, "tracked.txt")
	writeFile(t, filepath.Join(root, "skip.tmp"), "temp file")
	writeFile(t, filepath.Join(root, "skip.bin"), "unsupported")
	writeFile(t, tracked, "tracked")

	// Once the supported file lands, the excluded ones had ample time.
	require.Eventually(t, func() bool {
		f, err := s.GetFile(tracked)
		return err == nil && f != nil
	}, 5*time.Second, 50*time.Millisecond)

	count, err := s.GetFileCount()
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestStopWatching_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")

	require.NoError(t, e.IndexFolder(context.Background(), root))
	e.StopWatching()
	e.StopWatching()
	require.Equal(t, StateIdle, e.State())
}
