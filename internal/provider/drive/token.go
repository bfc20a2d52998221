package drive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/utils"
)

// keyringService is the service name used for system keyring entries.
const keyringService = "driveback"

// TokenStorage persists OAuth tokens per profile. The system keyring is
// preferred; a plain file under the config directory is the fallback for
// hosts without one (headless servers, containers).
type TokenStorage struct {
	configDir string
}

// NewTokenStorage creates token storage rooted at the config directory.
func NewTokenStorage() (*TokenStorage, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return &TokenStorage{configDir: dir}, nil
}

// Save stores the token for a profile.
func (s *TokenStorage) Save(profile string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := keyring.Set(keyringService, profile, string(data)); err == nil {
		return nil
	}

	path := s.tokenFilePath(profile)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Load retrieves the token for a profile.
func (s *TokenStorage) Load(profile string) (*oauth2.Token, error) {
	var data []byte

	if v, err := keyring.Get(keyringService, profile); err == nil {
		data = []byte(v)
	} else {
		v, err := os.ReadFile(s.tokenFilePath(profile))
		if err != nil {
			return nil, utils.NewAppError(utils.ErrCodeAuthRequired,
				fmt.Sprintf("no stored credentials for profile %q, run 'driveback auth' first", profile))
		}
		data = v
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, utils.NewAppError(utils.ErrCodeAuthInvalid,
			fmt.Sprintf("stored credentials for profile %q are corrupt", profile)).WithCause(err)
	}
	return token, nil
}

// Delete removes the stored token for a profile.
func (s *TokenStorage) Delete(profile string) error {
	_ = keyring.Delete(keyringService, profile)
	err := os.Remove(s.tokenFilePath(profile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *TokenStorage) tokenFilePath(profile string) string {
	return filepath.Join(s.configDir, "tokens", profile+".json")
}
