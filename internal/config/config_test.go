package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lokalize.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeFile(t, "log_level = \"debug\"\nfilter_engine = \"cel\"\ndisplay_language = \"de\"\n")
	t.Setenv("LOKALIZE_FILTER_ENGINE", "expr")
	t.Setenv("LOKALIZE_ACTOR_ID", "translator")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "de", cfg.DisplayLanguage)
	assert.Equal(t, "expr", cfg.FilterEngine)
	assert.Equal(t, "translator", cfg.ActorID)
	assert.Equal(t, ".properties", cfg.Extension)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")

	_, err := Load(missing, false)
	require.NoError(t, err)

	_, err = Load(missing, true)
	require.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "colour = true\n"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.FilterEngine = "lua"
	require.Error(t, cfg.Validate())

	t.Setenv("LOKALIZE_LOG_FORMAT", "json")
	loaded, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.LogFormat)
}
