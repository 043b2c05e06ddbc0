// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	require.NotNil(t, theme)

	// Styles must be usable without further configuration.
	require.NotEmpty(t, theme.HeaderTitle.Render("filedex"))
	require.NotEmpty(t, theme.StatusBar.Render("ready"))
}

func TestActiveBorder(t *testing.T) {
	theme := NewTheme()
	active := theme.ActiveBorder(theme.ResultList)

	// The returned style is a copy; the original stays inactive.
	require.Equal(t, Cyan, active.GetBorderTopForeground())
	require.Equal(t, OverlayDim, theme.ResultList.GetBorderTopForeground())
}
