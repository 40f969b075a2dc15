//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/makerfetch/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_ReplacesBrowserAfterPageBudget(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
	require.NoError(t, err)
	defer manager.Close()

	firstBrowser := manager.Browser()
	require.NotNil(t, firstBrowser)

	manager.IncrementPageCount()
	manager.IncrementPageCount()
	manager.IncrementPageCount()

	secondBrowser := manager.Browser()
	require.NotNil(t, secondBrowser)

	assert.NotSame(t, firstBrowser, secondBrowser)
}

func TestBrowserManager_KeepsBrowserWithinPageBudget(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
	require.NoError(t, err)
	defer manager.Close()

	firstBrowser := manager.Browser()
	require.NotNil(t, firstBrowser)

	manager.IncrementPageCount()
	manager.IncrementPageCount()

	sameBrowser := manager.Browser()
	assert.Same(t, firstBrowser, sameBrowser)
}

func TestBrowserManager_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.Zero(t, manager.LauncherPID())
}
