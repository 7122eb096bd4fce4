package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DAYBOOK_BACKEND_URL", "DAYBOOK_API_KEY", "DAYBOOK_ACCESS_TOKEN", "DAYBOOK_USER_ID", "DAYBOOK_DATA_DIR"} {
		t.Setenv(k, "")
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, "monday", cfg.Week.StartDay)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, filepath.Join(home, ".config", "daybook"), cfg.Storage.DataDir)
	assert.False(t, cfg.Backend.Configured())
}

func TestLoadFrom_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
url = "https://proj.example.co"
api_key = "anon"
user_id = "from-file"

[storage]
backend = "file"
data_dir = "/tmp/daybook-test"

[week]
start_day = "sunday"
`), 0600))
	t.Setenv("DAYBOOK_USER_ID", "from-env")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://proj.example.co", cfg.Backend.URL)
	assert.Equal(t, "from-env", cfg.Backend.UserID)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/daybook-test", cfg.Storage.DataDir)
	assert.Equal(t, "sunday", cfg.Week.StartDay)
	assert.True(t, cfg.Backend.Configured())
}

func TestLoadFrom_TildeDataDir(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DAYBOOK_DATA_DIR", "~/notes/daybook")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "daybook"), cfg.Storage.DataDir)
}

func TestLoadFrom_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[backend\nurl="), 0600))
	_, err := LoadFrom(bad)
	assert.ErrorContains(t, err, "parsing config file")

	wrong := filepath.Join(dir, "wrong.toml")
	require.NoError(t, os.WriteFile(wrong, []byte("[storage]\nbackend = \"postgres\"\ndata_dir = \"/tmp/x\"\n"), 0600))
	_, err = LoadFrom(wrong)
	assert.ErrorContains(t, err, "storage.backend")
}

func TestWriteDefaultThenLoad(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	require.NoError(t, WriteDefault(path))
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.Calendar.Category)

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("[week]\nstart_day = \"sunday\"\n"), 0600))
	require.NoError(t, WriteDefault(path))
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sunday", cfg.Week.StartDay)
}

func TestSetValue_PreservesOtherSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"https://x.example\"\n"), 0600))

	require.NoError(t, SetValue(path, "backend.user_id", "u-42"))
	require.NoError(t, SetValue(path, "notifications.enabled", false))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://x.example", cfg.Backend.URL)
	assert.Equal(t, "u-42", cfg.Backend.UserID)
	assert.False(t, cfg.Notifications.Enabled)

	assert.Error(t, SetValue(path, "nodot", "x"))
}
