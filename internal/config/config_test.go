package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}

const validConfig = `
settings:
  log_level: debug
  credentials_file: /etc/driveback/client.json
jobs:
  - name: documents
    profile: personal
    folders:
      - Documents
      - Photos
    destination: /backup/drive
    exclude:
      - "*.tmp"
      - .git
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Settings.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %q", cfg.Settings.LogLevel)
	}
	if cfg.Settings.CredentialsFile != "/etc/driveback/client.json" {
		t.Errorf("Unexpected credentials file: %q", cfg.Settings.CredentialsFile)
	}
	if len(cfg.Jobs) != 1 {
		t.Fatalf("Expected 1 job, got %d", len(cfg.Jobs))
	}

	j := cfg.Jobs[0]
	if j.Name != "documents" || j.Profile != "personal" {
		t.Errorf("Unexpected job identity: %+v", j)
	}
	if len(j.Folders) != 2 || j.Folders[0] != "Documents" {
		t.Errorf("Unexpected folders: %v", j.Folders)
	}
	if len(j.Exclude) != 2 || j.Exclude[0] != "*.tmp" {
		t.Errorf("Unexpected exclude patterns: %v", j.Exclude)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, validConfig)
	t.Setenv("DRIVEBACK_LOG_LEVEL", "warn")
	t.Setenv("DRIVEBACK_DRY_RUN", "true")
	t.Setenv("DRIVEBACK_HISTORY_DB", "/tmp/h.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Settings.LogLevel != "warn" {
		t.Errorf("Expected env override for log level, got %q", cfg.Settings.LogLevel)
	}
	if !cfg.Settings.DryRun {
		t.Error("Expected env override for dry run")
	}
	if cfg.Settings.HistoryDB != "/tmp/h.db" {
		t.Errorf("Expected env override for history db, got %q", cfg.Settings.HistoryDB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name: "invalid log level",
			config: Config{
				Settings: Settings{LogLevel: "loud"},
				Jobs:     []Job{{Name: "a", Destination: "/b", Folders: []string{"X"}}},
			},
			errorMsg: "invalid log level",
		},
		{
			name:     "no jobs",
			config:   Config{Settings: DefaultSettings()},
			errorMsg: "no jobs defined",
		},
		{
			name: "missing job name",
			config: Config{
				Settings: DefaultSettings(),
				Jobs:     []Job{{Destination: "/b", Folders: []string{"X"}}},
			},
			errorMsg: "name is required",
		},
		{
			name: "duplicate job name",
			config: Config{
				Settings: DefaultSettings(),
				Jobs: []Job{
					{Name: "a", Destination: "/b", Folders: []string{"X"}},
					{Name: "a", Destination: "/c", Folders: []string{"Y"}},
				},
			},
			errorMsg: "duplicate job name",
		},
		{
			name: "missing destination",
			config: Config{
				Settings: DefaultSettings(),
				Jobs:     []Job{{Name: "a", Folders: []string{"X"}}},
			},
			errorMsg: "destination is required",
		},
		{
			name: "missing folders",
			config: Config{
				Settings: DefaultSettings(),
				Jobs:     []Job{{Name: "a", Destination: "/b"}},
			},
			errorMsg: "at least one folder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestJobByName(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	j, err := cfg.JobByName("documents")
	if err != nil {
		t.Fatalf("JobByName failed: %v", err)
	}
	if j.Name != "documents" {
		t.Errorf("Unexpected job: %+v", j)
	}

	if _, err := cfg.JobByName("missing"); err == nil {
		t.Error("Expected error for unknown job")
	}
}

func TestHistoryPath(t *testing.T) {
	t.Setenv("DRIVEBACK_CONFIG_DIR", t.TempDir())

	cfg := &Config{Settings: DefaultSettings()}
	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	if filepath.Base(path) != "history.db" {
		t.Errorf("Expected default history.db, got %q", path)
	}

	cfg.Settings.HistoryDB = "/custom/h.db"
	path, err = cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	if path != "/custom/h.db" {
		t.Errorf("Expected explicit path, got %q", path)
	}
}
