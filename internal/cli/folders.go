package cli

import (
	"context"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/utils"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List top-level remote folders for a job",
	Long: `List the folders directly under a job's remote root and mark the
ones the job is configured to mirror. Useful when deciding what to add
to the folders list.`,
	RunE: runFolders,
}

var foldersJobName string

func init() {
	foldersCmd.Flags().StringVarP(&foldersJobName, "job", "j", "", "Job whose remote root to list (required)")
	_ = foldersCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := context.Background()

	cfg, err := config.Load(globalFlags.Config)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeInvalidConfig, err.Error())
	}
	j, err := cfg.JobByName(foldersJobName)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeUnknownJob, err.Error())
	}

	factory := driveProviderFactory(cfg.Settings.CredentialsFile, log)
	p, err := factory(ctx, *j)
	if err != nil {
		return err
	}
	root, err := p.Root(ctx)
	if err != nil {
		return err
	}
	children, err := root.Children(ctx)
	if err != nil {
		return utils.NewAppError(utils.ErrCodeListingFailed,
			"failed to list remote root").WithCause(err)
	}

	configured := make(map[string]bool, len(j.Folders))
	for _, folder := range j.Folders {
		configured[folder] = true
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Folder", "Configured"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, child := range children {
		if !child.IsFolder() {
			continue
		}
		mark := ""
		if configured[child.Name()] {
			mark = "yes"
		}
		table.Append([]string{child.Name(), mark})
	}
	table.Render()
	return nil
}
