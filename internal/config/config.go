// Package config loads the procrastitask.yml settings file, layering
// environment overrides on top. A missing file is not an error; the
// defaults are a working setup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir holds the task store, telemetry database and backups.
	DataDir string `yaml:"data_dir"`

	// DefaultLists preselects lists at session start. Empty means "all".
	DefaultLists []string `yaml:"default_lists"`

	// VelocityWindowDays is the trailing window for velocity stats.
	VelocityWindowDays int `yaml:"velocity_window_days"`

	Location  LocationConfig  `yaml:"location"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type LocationConfig struct {
	// Override pins the position as "lat,lon" and skips the IP lookup.
	Override string `yaml:"override"`
	// Disabled turns location resolution off entirely.
	Disabled bool `yaml:"disabled"`
}

type TelemetryConfig struct {
	Disabled bool `yaml:"disabled"`
}

func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:            filepath.Join(home, ".procrastitask"),
		VelocityWindowDays: 7,
	}
}

// Load reads the config file at path, or returns defaults when it does not
// exist. Env overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	applyEnv(cfg)
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = Default().DataDir
	}
	if c.VelocityWindowDays <= 0 {
		c.VelocityWindowDays = 7
	}
}

// VelocityWindow is VelocityWindowDays as a duration.
func (c *Config) VelocityWindow() time.Duration {
	return time.Duration(c.VelocityWindowDays) * 24 * time.Hour
}

// StorePath is the task store location under DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

// TelemetryPath is the telemetry database location under DataDir.
func (c *Config) TelemetryPath() string {
	return filepath.Join(c.DataDir, "telemetry.db")
}

// BackupDir is where Backup writes timestamped store copies.
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}
