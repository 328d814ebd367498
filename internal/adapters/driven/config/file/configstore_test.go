package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("default_checkout", "/srv/emerald"))
	require.NoError(t, store.Set("build.timeout_seconds", int64(600)))
	require.NoError(t, store.Set("build.enabled", true))

	assert.Equal(t, "/srv/emerald", store.GetString("default_checkout"))
	assert.Equal(t, 600, store.GetInt("build.timeout_seconds"))
	assert.True(t, store.GetBool("build.enabled"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("default_checkout"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("builder", "docker"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "docker", reloaded.GetString("builder"))
	assert.Equal(t, filepath.Join(dir, "config.toml"), reloaded.Path())
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[build]\nimage = \"porybridge/gba-toolchain\"\ntimeout_seconds = 300\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "porybridge/gba-toolchain", store.GetString("build.image"))
	assert.Equal(t, 300, store.GetInt("build.timeout_seconds"))
}

func TestConfigStore_EmptyFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}
