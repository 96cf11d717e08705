package main

import (
	"errors"
	"testing"
	"time"

	"github.com/spboyer/trialscope/internal/orchestration"
	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/provider/providermock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func useCacheClient(t *testing.T, c provider.CacheClient) {
	t.Helper()
	orig := newCacheClient
	newCacheClient = func(*cobra.Command, *app) (provider.CacheClient, error) { return c, nil }
	t.Cleanup(func() { newCacheClient = orig })
}

func testCaches() []*provider.Cache {
	return []*provider.Cache{
		{Name: "cachedContents/a1", DisplayName: orchestration.CacheDisplayPrefix + "20251014-093005", Model: "models/gemini-2.5-pro", ExpireTime: time.Now().Add(time.Hour)},
		{Name: "cachedContents/b2", DisplayName: "someone-elses-cache", Model: "models/gemini-2.5-pro"},
		{Name: "cachedContents/c3", DisplayName: orchestration.CacheDisplayPrefix + "20251015-120000", Model: "models/gemini-2.5-pro"},
	}
}

func TestCacheList(t *testing.T) {
	setupProject(t, "")
	ctrl := gomock.NewController(t)
	client := providermock.NewMockCacheClient(ctrl)
	useCacheClient(t, client)
	client.EXPECT().ListCaches(gomock.Any()).Return(testCaches(), nil)

	out, err := runCommand(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cachedContents/a1")
	assert.Contains(t, out, "cachedContents/c3")
	assert.NotContains(t, out, "cachedContents/b2")
}

func TestCachePrune(t *testing.T) {
	setupProject(t, "")
	ctrl := gomock.NewController(t)
	client := providermock.NewMockCacheClient(ctrl)
	useCacheClient(t, client)
	client.EXPECT().ListCaches(gomock.Any()).Return(testCaches(), nil)
	client.EXPECT().DeleteCache(gomock.Any(), "cachedContents/a1").Return(nil)
	client.EXPECT().DeleteCache(gomock.Any(), "cachedContents/c3").Return(errors.New("permission denied"))

	out, err := runCommand(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Deleted cachedContents/a1")
	assert.Contains(t, out, "⚠ Could not delete cachedContents/c3: permission denied")
	assert.Contains(t, out, "Deleted 1 of 2 cache(s)")
}

func TestCachePrune_DryRun(t *testing.T) {
	setupProject(t, "")
	ctrl := gomock.NewController(t)
	client := providermock.NewMockCacheClient(ctrl)
	useCacheClient(t, client)
	client.EXPECT().ListCaches(gomock.Any()).Return(testCaches(), nil)

	out, err := runCommand(t, "cache", "prune", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would delete cachedContents/a1")
	assert.Contains(t, out, "Would delete cachedContents/c3")
}

func TestCacheList_MissingKey(t *testing.T) {
	setupProject(t, "providers:\n  gemini:\n    api_key_env: TRIALSCOPE_TEST_UNSET_KEY\n")
	t.Setenv("TRIALSCOPE_TEST_UNSET_KEY", "")

	_, err := runCommand(t, "cache", "list")
	require.Error(t, err)
	assert.Equal(t, ExitMissing, exitCode(err))
}
