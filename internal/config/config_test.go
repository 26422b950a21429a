package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"tmdb_key": "tmdb-123",
		"gemini_key": "gem-456",
		"region": "GB",
		"use_browser": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tmdb-123", cfg.TMDBKey)
	assert.Equal(t, "gem-456", cfg.GeminiKey)
	assert.Equal(t, "GB", cfg.Region)
	assert.True(t, cfg.UseBrowser)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{TMDBKey: "from-file"}
	defaults := Config{TMDBKey: "from-env", GeminiKey: "env-gem", Region: "DE"}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "from-file", merged.TMDBKey, "explicit value wins")
	assert.Equal(t, "env-gem", merged.GeminiKey, "empty value filled from defaults")
	assert.Equal(t, "DE", merged.Region)
}

func TestMergeWithDefaults_BuiltIns(t *testing.T) {
	merged := Config{}.MergeWithDefaults(Config{})
	assert.Equal(t, DefaultRegion, merged.Region)
	assert.Equal(t, DefaultMirrorBase, merged.MirrorBase)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{TMDBKey: "x"}.Validate())
	assert.Error(t, Config{GeminiKey: "y"}.Validate())
	assert.NoError(t, Config{TMDBKey: "x", GeminiKey: "y"}.Validate())
}
