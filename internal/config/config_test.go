package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GAFAWS_DB", "")
	t.Setenv("GAFAWS_LOG_LEVEL", "")
	t.Setenv("GAFAWS_CATALOG", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: /tmp/a.db\nlog_level: debug\ndefault_format: text\n"), 0o644))

	t.Run("file values", func(t *testing.T) {
		t.Setenv("GAFAWS_DB", "")
		t.Setenv("GAFAWS_LOG_LEVEL", "")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/a.db", cfg.DatabasePath)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.DefaultFormat)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("GAFAWS_DB", "/tmp/env.db")
		t.Setenv("GAFAWS_LOG_LEVEL", "warn")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", cfg.DatabasePath)
		assert.Equal(t, "warn", cfg.LogLevel)
	})
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GAFAWS_LOG_LEVEL", "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: [\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("log_level: loud\n"), 0o644))
	_, err = Load(level)
	assert.ErrorContains(t, err, "log_level")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("GAFAWS_DB", "")
	t.Setenv("GAFAWS_LOG_LEVEL", "")
	t.Setenv("GAFAWS_CATALOG", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.CatalogPath = "/etc/gafaws/fr.yaml"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
