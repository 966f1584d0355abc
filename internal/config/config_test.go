package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taskit", "config.toml")
	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.AutosaveSeconds)
	assert.Equal(t, "all", cfg.DefaultView)
	assert.NotEmpty(t, cfg.LogPath)

	// the file exists now and loads back to the same values
	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `db_path = "/tmp/custom.db"
log_path = "/tmp/custom.log"
autosave_seconds = 30
default_view = "ungrouped"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "/tmp/custom.log", cfg.LogPath)
	assert.Equal(t, 30, cfg.AutosaveSeconds)
	assert.Equal(t, "ungrouped", cfg.DefaultView)
}

func TestLoadOrCreateNormalizesBadValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `autosave_seconds = -5
default_view = "sideways"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.AutosaveSeconds)
	assert.Equal(t, "all", cfg.DefaultView)
	assert.NotEmpty(t, cfg.LogPath)
}

func TestLoadOrCreateRejectsMalformedToml(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("autosave_seconds = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}
