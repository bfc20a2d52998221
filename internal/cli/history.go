package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/history"
	"github.com/akarsten/driveback/internal/utils"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past runs",
	RunE:  runHistory,
}

var (
	historyJobName string
	historyLimit   int
)

func init() {
	historyCmd.Flags().StringVarP(&historyJobName, "job", "j", "", "Show only runs of the named job")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(globalFlags.Config)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeInvalidConfig, err.Error())
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}

	hist, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	runs, err := hist.ListRuns(context.Background(), historyJobName, historyLimit)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), runs)
	return nil
}
