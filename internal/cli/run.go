package cli

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/history"
	"github.com/akarsten/driveback/internal/job"
	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/provider"
	"github.com/akarsten/driveback/internal/provider/drive"
	"github.com/akarsten/driveback/internal/sync"
	"github.com/akarsten/driveback/internal/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run backup jobs",
	Long: `Run all configured backup jobs, or a single job with --job.
Exits non-zero when any folder finished with errors.`,
	RunE: runRun,
}

var (
	runJobName  string
	runDryRun   bool
	runFullScan bool
)

func init() {
	runCmd.Flags().StringVarP(&runJobName, "job", "j", "", "Run only the named job")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute actions without writing or deleting anything")
	runCmd.Flags().BoolVar(&runFullScan, "full-scan", false, "Ignore cached folder state and re-walk everything")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := context.Background()

	cfg, err := config.Load(globalFlags.Config)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeInvalidConfig, err.Error())
	}
	if cfg.Settings.LogLevel != "" {
		log.SetLevel(logging.ParseLevel(cfg.Settings.LogLevel))
	}

	jobs := cfg.Jobs
	if runJobName != "" {
		j, err := cfg.JobByName(runJobName)
		if err != nil {
			return utils.NewAppError(utils.ErrCodeUnknownJob, err.Error())
		}
		jobs = []config.Job{*j}
	}

	opts := sync.Options{
		DryRun:   runDryRun || cfg.Settings.DryRun,
		FullScan: runFullScan || cfg.Settings.FullScan,
	}

	hist := openHistory(cfg, opts.DryRun, log)
	if hist != nil {
		defer func() { _ = hist.Close() }()
	}

	factory := driveProviderFactory(cfg.Settings.CredentialsFile, log)
	runner := job.NewRunner(factory, afero.NewOsFs(), hist, log)
	results := runner.RunAll(ctx, jobs, opts)

	printRunResults(cmd.OutOrStdout(), results, opts.DryRun)

	var total sync.Stats
	for _, result := range results {
		total.Add(result.Total)
	}
	if total.Errors > 0 {
		return utils.NewAppError(utils.ErrCodePartialFailure,
			fmt.Sprintf("%d error(s) during sync", total.Errors))
	}
	return nil
}

// openHistory opens the run-history database. Failure to open degrades to
// no recording; it never blocks a backup.
func openHistory(cfg *config.Config, dryRun bool, log logging.Logger) *history.DB {
	if dryRun {
		return nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		log.Warn("Could not resolve history database path", logging.F("error", err.Error()))
		return nil
	}
	hist, err := history.Open(path)
	if err != nil {
		log.Warn("Could not open history database",
			logging.F("path", path),
			logging.F("error", err.Error()),
		)
		return nil
	}
	return hist
}

// driveProviderFactory builds the Drive provider for a job.
func driveProviderFactory(credentialsFile string, log logging.Logger) job.ProviderFactory {
	return func(ctx context.Context, j config.Job) (provider.Provider, error) {
		profile := j.Profile
		if profile == "" {
			profile = "default"
		}
		service, err := drive.NewService(ctx, profile, credentialsFile)
		if err != nil {
			return nil, err
		}
		client := drive.NewClient(service, 3, 1000, log)
		return drive.NewProvider(client, j.RemoteRoot, log), nil
	}
}
