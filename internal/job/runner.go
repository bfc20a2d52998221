// Package job executes configured backup jobs: it builds the remote
// provider for each job, runs every folder through the reconciler, and
// aggregates the statistics into an overall result.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/akarsten/driveback/internal/config"
	"github.com/akarsten/driveback/internal/history"
	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/provider"
	"github.com/akarsten/driveback/internal/sync"
)

// ProviderFactory builds the remote tree provider for a job. Injected so
// the runner never depends on a concrete transport.
type ProviderFactory func(ctx context.Context, job config.Job) (provider.Provider, error)

// FolderResult is the outcome of syncing one folder.
type FolderResult struct {
	Folder string
	Stats  sync.Stats
}

// Result is the outcome of one job.
type Result struct {
	Job     string
	Folders []FolderResult
	Total   sync.Stats
}

// Runner executes jobs sequentially. Two runs against the same
// destination must not interleave; the runner never starts a second sync
// of a (destination, folder) pair while one is in flight.
type Runner struct {
	factory ProviderFactory
	fs      afero.Fs
	history *history.DB
	logger  logging.Logger
}

// NewRunner creates a runner. history may be nil to skip run recording.
func NewRunner(factory ProviderFactory, fs afero.Fs, hist *history.DB, logger logging.Logger) *Runner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Runner{
		factory: factory,
		fs:      fs,
		history: hist,
		logger:  logger,
	}
}

// RunJob syncs every folder of one job. A folder failure never aborts the
// remaining folders; it accumulates into the result.
func (r *Runner) RunJob(ctx context.Context, j config.Job, opts sync.Options) Result {
	traceID := uuid.New().String()
	logger := r.logger.WithTraceID(traceID)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	result := Result{Job: j.Name}
	logger.Info("Starting job", logging.F("job", j.Name), logging.F("folders", len(j.Folders)))

	p, err := r.factory(ctx, j)
	if err != nil {
		logger.Error("Could not build remote provider",
			logging.F("job", j.Name),
			logging.F("error", err.Error()),
		)
		result.Total.Errors++
		return result
	}

	reconciler := sync.NewReconciler(p, j.Destination, j.Exclude, r.fs, logger)

	for _, folder := range j.Folders {
		started := time.Now()
		stats := reconciler.SyncFolder(ctx, folder, opts)
		r.record(ctx, logger, j.Name, folder, started, stats, opts.DryRun)

		result.Folders = append(result.Folders, FolderResult{Folder: folder, Stats: stats})
		result.Total.Add(stats)
	}

	logger.Info("Job finished",
		logging.F("job", j.Name),
		logging.F("downloaded", result.Total.Downloaded),
		logging.F("deleted", result.Total.Deleted),
		logging.F("skipped", result.Total.Skipped),
		logging.F("errors", result.Total.Errors),
	)
	return result
}

// RunAll executes the given jobs in order and returns all results.
func (r *Runner) RunAll(ctx context.Context, jobs []config.Job, opts sync.Options) []Result {
	results := make([]Result, 0, len(jobs))
	for _, j := range jobs {
		results = append(results, r.RunJob(ctx, j, opts))
	}
	return results
}

func (r *Runner) record(ctx context.Context, logger logging.Logger, jobName, folder string, started time.Time, stats sync.Stats, dryRun bool) {
	if r.history == nil {
		return
	}
	run := history.Run{
		ID:         uuid.New().String(),
		Job:        jobName,
		Folder:     folder,
		Started:    started.Unix(),
		DurationMS: time.Since(started).Milliseconds(),
		Downloaded: stats.Downloaded,
		Deleted:    stats.Deleted,
		Skipped:    stats.Skipped,
		Errors:     stats.Errors,
		DryRun:     dryRun,
	}
	if err := r.history.RecordRun(ctx, run); err != nil {
		logger.Warn("Could not record run history", logging.F("error", err.Error()))
	}
}
