package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, `
[app]
title = "Fruit picker"

[data]
path = "fruits.json"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Fruit picker", cfg.App.Title)
	assert.Equal(t, "fruits.json", cfg.Data.Path)
	assert.Equal(t, "Search...", cfg.Widget.Placeholder)
	assert.Equal(t, 40, cfg.Widget.Width)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// width has the wrong type, so strict decoding fails; the other
	// sections must survive.
	path := writeFile(t, t.TempDir(), FileName, `
[widget]
placeholder = "Type a fruit"
width = "wide"

[theme]
match = "212"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Type a fruit", cfg.Widget.Placeholder)
	assert.Equal(t, 40, cfg.Widget.Width)
	assert.Equal(t, "212", cfg.Theme.Match)
}

func TestLoadConfigGarbageFallsBackToDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "this is [[ not toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigClampsWidth(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "[widget]\nwidth = 3\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Widget.Width)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.toml", "[app]\ntitle = \"Custom\"\n")

	cfg, used, err := LoadConfigWithPriority(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "Custom", cfg.App.Title)
}

func TestLoadConfigWithPriorityMissingCustomPath(t *testing.T) {
	cfg, used, err := LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestGetActiveConfigPath(t *testing.T) {
	assert.Equal(t, "unknown", GetActiveConfigPath(""))

	abs := filepath.Join(t.TempDir(), FileName)
	assert.Equal(t, abs, GetActiveConfigPath(abs))

	rel := GetActiveConfigPath(FileName)
	assert.True(t, filepath.IsAbs(rel))
	assert.Equal(t, FileName, filepath.Base(rel))
}
