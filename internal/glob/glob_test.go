// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch_DoubleStar(t *testing.T) {
	m := New([]string{"**/node_modules/**"})

	require.True(t, m.Match("/home/user/project/node_modules/pkg/index.js"))
	require.True(t, m.Match("node_modules/pkg/index.js"))
	// `**` matches zero segments, so the directory itself is matched
	// and can be pruned without descending.
	require.True(t, m.Match("/home/user/project/node_modules"))
	require.True(t, m.Match("node_modules"))

	require.False(t, m.Match("/home/user/project/src/index.js"))
	require.False(t, m.Match("/home/user/node_modules_backup/x.js"))
}

func TestMatch_SingleStarStaysInSegment(t *testing.T) {
	m := New([]string{"**/*.tmp"})

	require.True(t, m.Match("/a/b/c.tmp"))
	require.True(t, m.Match("c.tmp"))
	// `*` must not cross a separator.
	require.False(t, m.Match("/a/b.tmp/c.txt"))
	// A `.` in the pattern is a literal dot, not "any character".
	require.False(t, m.Match("/a/b/cxtmp"))
}

func TestMatch_QuestionMark(t *testing.T) {
	m := New([]string{"**/file?.log"})

	require.True(t, m.Match("/x/file1.log"))
	require.True(t, m.Match("/x/fileA.log"))
	require.False(t, m.Match("/x/file12.log"))
	require.False(t, m.Match("/x/file.log"))
}

func TestMatch_HiddenFiles(t *testing.T) {
	m := New([]string{"**/.*"})

	require.True(t, m.Match("/home/user/.DS_Store"))
	require.True(t, m.Match("/home/user/.git"))
	require.False(t, m.Match("/home/user/visible.txt"))
}

func TestMatch_BareNamePattern(t *testing.T) {
	m := New([]string{"vendor"})

	require.True(t, m.Match("/proj/vendor"))
	require.True(t, m.Match("/proj/vendor/lib/x.go"))
	require.False(t, m.Match("/proj/vendored/x.go"))
}

func TestMatch_SeparatorNormalization(t *testing.T) {
	m := New([]string{"**/build/**"})

	require.True(t, m.Match(`C:\proj\build\out.o`))
	require.True(t, m.Match("/proj/build/out.o"))
}

func TestMatch_EmptyAndNoPatterns(t *testing.T) {
	m := New(nil)
	require.False(t, m.Match("/anything"))

	m = New([]string{"", "  "})
	require.False(t, m.Match("/anything"))
}

func TestMatchWithAncestors(t *testing.T) {
	m := New([]string{"**/.*"})

	// The file itself is not hidden, but it lives under a hidden dir.
	require.True(t, m.MatchWithAncestors("/home/.cache/data.txt"))
	require.False(t, m.MatchWithAncestors("/home/cache/data.txt"))
}

func TestMatch_DoubleStarMiddle(t *testing.T) {
	m := New([]string{"src/**/testdata/**"})

	require.True(t, m.Match("src/a/b/testdata/f.bin"))
	require.True(t, m.Match("src/testdata/f.bin"))
	require.False(t, m.Match("other/testdata/f.bin"))
}
