package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/provider/drive"
	"github.com/akarsten/driveback/internal/utils"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize a profile against Google Drive",
	Long: `Run the interactive OAuth flow and store the resulting credentials
for a profile. Use --profile to keep several accounts apart.`,
	RunE: runAuth,
}

var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Delete the stored credentials for a profile",
	RunE:  runAuthRevoke,
}

var authProfile string

func init() {
	authCmd.PersistentFlags().StringVar(&authProfile, "profile", "default", "Credentials profile")
	authCmd.AddCommand(authRevokeCmd)

	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(globalFlags.Config)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeInvalidConfig, err.Error())
	}
	return drive.Authorize(context.Background(), authProfile, cfg.Settings.CredentialsFile,
		cmd.InOrStdin(), cmd.OutOrStdout())
}

func runAuthRevoke(cmd *cobra.Command, args []string) error {
	storage, err := drive.NewTokenStorage()
	if err != nil {
		return err
	}
	if err := storage.Delete(authProfile); err != nil {
		return err
	}
	cmd.Printf("Credentials removed for profile %q.\n", authProfile)
	return nil
}
