package drive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/akarsten/driveback/internal/utils"
)

// oauthConfig builds the OAuth config from a client credentials JSON file
// downloaded from the Google Cloud console. Read-only scope; the tool
// never writes to the remote tree.
func oauthConfig(credentialsFile string) (*oauth2.Config, error) {
	if credentialsFile == "" {
		return nil, utils.NewAppError(utils.ErrCodeInvalidConfig,
			"credentials_file is not set, point it at your OAuth client JSON")
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read credentials file %s", credentialsFile)).WithCause(err)
	}
	cfg, err := google.ConfigFromJSON(data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeInvalidConfig,
			"failed to parse OAuth client credentials").WithCause(err)
	}
	return cfg, nil
}

// NewService builds an authenticated Drive service for a profile using the
// stored token. Token refresh happens transparently via the token source.
func NewService(ctx context.Context, profile, credentialsFile string) (*drive.Service, error) {
	cfg, err := oauthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	storage, err := NewTokenStorage()
	if err != nil {
		return nil, err
	}
	token, err := storage.Load(profile)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeNetworkError,
			"failed to create Drive service").WithCause(err)
	}
	return service, nil
}

// Authorize runs the interactive OAuth flow for a profile and stores the
// resulting token. The user opens the printed URL in a browser and pastes
// the authorization code back.
func Authorize(ctx context.Context, profile, credentialsFile string, in io.Reader, out io.Writer) error {
	cfg, err := oauthConfig(credentialsFile)
	if err != nil {
		return err
	}

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following URL in your browser:\n\n%s\n\nEnter the authorization code: ", url)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return utils.NewAppError(utils.ErrCodeAuthRequired, "no authorization code entered")
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return utils.NewAppError(utils.ErrCodeAuthRequired, "no authorization code entered")
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeAuthInvalid,
			"failed to exchange authorization code").WithCause(err)
	}

	storage, err := NewTokenStorage()
	if err != nil {
		return err
	}
	if err := storage.Save(profile, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	fmt.Fprintf(out, "Credentials stored for profile %q.\n", profile)
	return nil
}
