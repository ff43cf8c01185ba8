package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SENTIMARK_MODEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.SingleTemperature)
	assert.Equal(t, 0.2, cfg.BatchTemperature)
	assert.Equal(t, Duration(4500*time.Millisecond), cfg.RequestDelay)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Empty(t, cfg.Model)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SENTIMARK_MODEL", "")

	path := filepath.Join(t.TempDir(), "sentimark.yaml")
	content := "model: gemini-2.5-flash\nbatch_temperature: 0.1\nrequest_delay: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, 0.1, cfg.BatchTemperature)
	assert.Equal(t, Duration(2*time.Second), cfg.RequestDelay)
	// Untouched keys keep defaults.
	assert.Equal(t, 0.9, cfg.SingleTemperature)
}

func TestLoad_EnvModelWinsOverYAML(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SENTIMARK_MODEL", "gemini-override")

	path := filepath.Join(t.TempDir(), "sentimark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gemini-from-yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-override", cfg.Model)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentimark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
