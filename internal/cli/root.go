// Package cli wires the driveback commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/pkg/version"
)

// GlobalFlags are the persistent flags shared by all commands.
type GlobalFlags struct {
	Config  string
	LogFile string
	Quiet   bool
	Verbose bool
}

var (
	globalFlags GlobalFlags
	logger      logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "driveback",
	Short: "Incremental Google Drive backup",
	Long: `driveback mirrors folders of a Google Drive account into a local
directory. Syncs are incremental: unchanged folders are skipped using a
persisted snapshot, and local files that disappeared remotely are removed.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logConfig := logging.DefaultLogConfig()
		logConfig.OutputFile = globalFlags.LogFile
		logConfig.EnableConsole = !globalFlags.Quiet
		if globalFlags.Verbose {
			logConfig.Level = logging.DEBUG
		}

		var err error
		logger, err = logging.NewLogger(logConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress console output")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetLogger returns the logger built by the persistent pre-run hook.
func GetLogger() logging.Logger {
	if logger == nil {
		return logging.NewNoOpLogger()
	}
	return logger
}
