// Package config loads the driveback job configuration: a YAML file with
// global settings and a list of backup jobs, each mirroring a set of
// remote folders into a local destination.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config file name looked up in the working
	// directory when no path is given.
	DefaultConfigFile = "config.yaml"
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "DRIVEBACK_"
)

// Settings holds global options shared by all jobs.
type Settings struct {
	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// DryRun computes actions without writing or deleting anything.
	DryRun bool `yaml:"dry_run"`

	// FullScan ignores the etag cache and re-walks every folder.
	FullScan bool `yaml:"full_scan"`

	// HistoryDB is the path of the sqlite run-history database. Empty
	// means the default location under the config directory.
	HistoryDB string `yaml:"history_db"`

	// CredentialsFile is the OAuth client credentials JSON used by the
	// Drive provider.
	CredentialsFile string `yaml:"credentials_file"`
}

// Job describes one backup job: a remote account and the folders of its
// tree to mirror.
type Job struct {
	// Name identifies the job in logs, flags and history.
	Name string `yaml:"name"`

	// Profile selects the stored credentials for the remote account.
	Profile string `yaml:"profile"`

	// RemoteRoot optionally pins the remote tree root (provider specific,
	// e.g. a Drive folder ID). Empty means the account's drive root.
	RemoteRoot string `yaml:"remote_root"`

	// Folders are the top-level remote folders to mirror. "/" or ""
	// means the whole remote root.
	Folders []string `yaml:"folders"`

	// Destination is the local directory the folders are mirrored into.
	Destination string `yaml:"destination"`

	// Exclude patterns are evaluated against both the path relative to
	// each synced folder and the path from the remote root.
	Exclude []string `yaml:"exclude"`
}

// Config is the full configuration file.
type Config struct {
	Settings Settings `yaml:"settings"`
	Jobs     []Job    `yaml:"jobs"`
}

// DefaultSettings returns the settings used when the file omits them.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "info",
	}
}

// Load reads and validates the configuration. Path precedence: the given
// path, then DRIVEBACK_CONFIG, then ./config.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromEnv applies environment variable overrides.
func (c *Config) loadFromEnv() {
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Settings.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "HISTORY_DB"); v != "" {
		c.Settings.HistoryDB = v
	}
	if v := os.Getenv(EnvPrefix + "CREDENTIALS_FILE"); v != "" {
		c.Settings.CredentialsFile = v
	}
	if v := os.Getenv(EnvPrefix + "DRY_RUN"); v != "" {
		c.Settings.DryRun = parseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "FULL_SCAN"); v != "" {
		c.Settings.FullScan = parseBool(v)
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Settings.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Settings.LogLevel)
	}

	if len(c.Jobs) == 0 {
		return fmt.Errorf("no jobs defined")
	}

	seen := make(map[string]bool)
	for i, job := range c.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job %d: name is required", i)
		}
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name: %s", job.Name)
		}
		seen[job.Name] = true

		if job.Destination == "" {
			return fmt.Errorf("job %s: destination is required", job.Name)
		}
		if len(job.Folders) == 0 {
			return fmt.Errorf("job %s: at least one folder is required", job.Name)
		}
	}
	return nil
}

// JobByName returns the named job.
func (c *Config) JobByName(name string) (*Job, error) {
	for i := range c.Jobs {
		if c.Jobs[i].Name == name {
			return &c.Jobs[i], nil
		}
	}
	return nil, fmt.Errorf("job not found in configuration: %s", name)
}

// GetConfigDir returns the driveback config directory.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "driveback"), nil
}

// HistoryPath resolves the run-history database location.
func (c *Config) HistoryPath() (string, error) {
	if c.Settings.HistoryDB != "" {
		return c.Settings.HistoryDB, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// parseBool parses a boolean value from a string.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
