package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/utils"
)

// Store loads and persists snapshots on a filesystem.
type Store struct {
	fs     afero.Fs
	logger logging.Logger
}

// NewStore creates a snapshot store. A nil logger discards warnings.
func NewStore(fs afero.Fs, logger logging.Logger) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Store{fs: fs, logger: logger}
}

// Path returns the deterministic snapshot file location for a sync root:
// the destination directory plus a reserved-prefix file name derived from
// the folder path with slashes replaced.
func Path(destination, folderPath string) string {
	safe := strings.ReplaceAll(strings.Trim(folderPath, "/"), "/", "_")
	if safe == "" {
		safe = "root"
	}
	return filepath.Join(destination, utils.StateFilePrefix+safe+utils.StateFileSuffix)
}

// Load reads the snapshot for (destination, folderPath). A missing file
// yields an empty snapshot; an unreadable or corrupt file yields an empty
// snapshot with a warning, never an error.
func (s *Store) Load(destination, folderPath string) *Snapshot {
	path := Path(destination, folderPath)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("State file unreadable, starting with empty cache",
				logging.F("path", path),
				logging.F("error", err.Error()),
			)
		}
		return New()
	}

	snap := New()
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn("State file corrupt, starting with empty cache",
			logging.F("path", path),
			logging.F("error", err.Error()),
		)
		return New()
	}
	if snap.FolderEtags == nil {
		snap.FolderEtags = make(map[string]string)
	}
	if snap.FolderFiles == nil {
		snap.FolderFiles = make(map[string][]string)
	}
	return snap
}

// Save persists the snapshot for (destination, folderPath).
func (s *Store) Save(destination, folderPath string, snap *Snapshot) error {
	path := Path(destination, folderPath)

	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// IsStateFile reports whether a file name belongs to the snapshot store.
func IsStateFile(name string) bool {
	return strings.HasPrefix(name, utils.StateFilePrefix)
}
