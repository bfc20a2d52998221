package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/akarsten/driveback/internal/history"
	"github.com/akarsten/driveback/internal/job"
)

// printRunResults renders one table row per synced folder plus a totals row.
func printRunResults(out io.Writer, results []job.Result, dryRun bool) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Job", "Folder", "Downloaded", "Deleted", "Skipped", "Errors"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	var downloaded, deleted, skipped, errors int
	for _, result := range results {
		for _, folder := range result.Folders {
			name := folder.Folder
			if name == "" || name == "/" {
				name = "(root)"
			}
			table.Append([]string{
				result.Job,
				name,
				strconv.Itoa(folder.Stats.Downloaded),
				strconv.Itoa(folder.Stats.Deleted),
				strconv.Itoa(folder.Stats.Skipped),
				strconv.Itoa(folder.Stats.Errors),
			})
		}
		downloaded += result.Total.Downloaded
		deleted += result.Total.Deleted
		skipped += result.Total.Skipped
		errors += result.Total.Errors
	}
	table.SetFooter([]string{"", "Total",
		strconv.Itoa(downloaded), strconv.Itoa(deleted), strconv.Itoa(skipped), strconv.Itoa(errors)})

	if dryRun {
		fmt.Fprintln(out, "Dry run, no files were written or deleted.")
	}
	table.Render()
}

// printRuns renders past runs from the history database.
func printRuns(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Started", "Job", "Folder", "Duration", "Downloaded", "Deleted", "Skipped", "Errors", "Dry Run"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, run := range runs {
		folder := run.Folder
		if folder == "" || folder == "/" {
			folder = "(root)"
		}
		dryRun := ""
		if run.DryRun {
			dryRun = "yes"
		}
		table.Append([]string{
			time.Unix(run.Started, 0).Local().Format("2006-01-02 15:04:05"),
			run.Job,
			folder,
			formatDuration(run.DurationMS),
			strconv.Itoa(run.Downloaded),
			strconv.Itoa(run.Deleted),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Errors),
			dryRun,
		})
	}
	table.Render()
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	return d.Round(time.Second / 10).String()
}
