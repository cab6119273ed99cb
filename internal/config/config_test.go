package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 7, cfg.VelocityWindowDays)
	assert.Equal(t, 7*24*time.Hour, cfg.VelocityWindow())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procrastitask.yml")
	body := `
data_dir: /tmp/pt-data
default_lists: [work, home]
velocity_window_days: 14
location:
  override: "40.7,-74.0"
telemetry:
  disabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pt-data", cfg.DataDir)
	assert.Equal(t, []string{"work", "home"}, cfg.DefaultLists)
	assert.Equal(t, 14, cfg.VelocityWindowDays)
	assert.Equal(t, "40.7,-74.0", cfg.Location.Override)
	assert.True(t, cfg.Telemetry.Disabled)
	assert.Equal(t, filepath.Join("/tmp/pt-data", "tasks.json"), cfg.StorePath())
	assert.Equal(t, filepath.Join("/tmp/pt-data", "telemetry.db"), cfg.TelemetryPath())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procrastitask.yml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/from-file\n"), 0o644))

	t.Setenv("PROCRASTITASK_DATA_DIR", "/tmp/from-env")
	t.Setenv("PROCRASTITASK_LISTS", "work, errands")
	t.Setenv("PROCRASTITASK_LOCATION", "1.0,2.0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", cfg.DataDir)
	assert.Equal(t, []string{"work", "errands"}, cfg.DefaultLists)
	assert.Equal(t, "1.0,2.0", cfg.Location.Override)
}
