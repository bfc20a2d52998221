// Package sync implements the incremental reconciliation engine: it walks
// a remote subtree with etag-based cache pruning, materializes changed
// files locally, deletes local orphans, and persists the etag cache for
// the next run.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/provider"
	"github.com/akarsten/driveback/internal/sync/exclude"
	"github.com/akarsten/driveback/internal/sync/snapshot"
	"github.com/akarsten/driveback/internal/sync/transfer"
	"github.com/akarsten/driveback/internal/sync/walker"
	"github.com/akarsten/driveback/internal/utils"
)

// Options control one SyncFolder invocation.
type Options struct {
	// DryRun computes actions and statistics without touching the local
	// tree: no writes, no deletes, no snapshot persistence.
	DryRun bool
	// FullScan ignores the cached snapshot and re-walks every folder.
	FullScan bool
}

// Reconciler mirrors folders of one remote tree into a destination
// directory. It is remote-authoritative and one-directional.
type Reconciler struct {
	provider    provider.Provider
	destination string
	matcher     *exclude.Matcher
	fs          afero.Fs
	store       *snapshot.Store
	walker      *walker.Walker
	downloader  *transfer.Downloader
	logger      logging.Logger
}

// NewReconciler creates a reconciler for one (provider, destination) pair.
func NewReconciler(p provider.Provider, destination string, excludePatterns []string, fs afero.Fs, logger logging.Logger) *Reconciler {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	matcher := exclude.New(excludePatterns)
	return &Reconciler{
		provider:    p,
		destination: destination,
		matcher:     matcher,
		fs:          fs,
		store:       snapshot.NewStore(fs, logger),
		walker:      walker.New(matcher, logger),
		downloader:  transfer.NewDownloader(fs, logger),
		logger:      logger,
	}
}

// SyncFolder mirrors one remote folder (empty folderPath means the remote
// root) into the destination. It never aborts sibling folders: failures
// accumulate into the returned Stats, and the new snapshot is persisted
// only when the run was not a dry run and saw no errors.
func (r *Reconciler) SyncFolder(ctx context.Context, folderPath string, opts Options) Stats {
	folderPath = strings.Trim(folderPath, "/")
	stats := Stats{}

	destBase := r.destination
	if folderPath != "" {
		destBase = filepath.Join(r.destination, filepath.FromSlash(folderPath))
	}

	r.logger.Info("Syncing folder",
		logging.F("folder", displayFolder(folderPath)),
		logging.F("destination", destBase),
	)

	remoteRoot, err := r.resolveFolder(ctx, folderPath)
	if err != nil {
		r.logger.Error("Could not resolve remote folder",
			logging.F("folder", displayFolder(folderPath)),
			logging.F("error", err.Error()),
		)
		stats.Errors++
		return stats
	}

	cached := snapshot.New()
	if !opts.FullScan {
		cached = r.store.Load(r.destination, folderPath)
	}

	entries, newSnap, counters := r.walker.Walk(ctx, remoteRoot, "", folderPath, cached)
	r.logger.Info("Remote scan complete",
		logging.F("files", counters.Files),
		logging.F("folders", counters.Folders),
		logging.F("cacheHits", counters.CacheHits),
		logging.F("listFailures", counters.ListFailures),
	)

	remotePaths := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		remotePaths[entry.Path] = struct{}{}
		localPath := filepath.Join(destBase, filepath.FromSlash(entry.Path))

		switch {
		case entry.Source == nil:
			// Cache hit: the file sat in an unchanged folder and was
			// confirmed present at the last successful run.
			r.logger.Debug("Unchanged (cache)", logging.F("path", entry.Path))
			stats.Skipped++
		case r.downloader.NeedsUpdate(entry.Source, localPath):
			r.logger.Info("Downloading", logging.F("path", entry.Path))
			if err := r.downloader.Download(ctx, entry.Source, localPath, opts.DryRun); err != nil {
				r.logger.Error("Download failed",
					logging.F("path", entry.Path),
					logging.F("error", err.Error()),
				)
				stats.Errors++
			} else {
				stats.Downloaded++
			}
		default:
			r.logger.Debug("Unchanged", logging.F("path", entry.Path))
			stats.Skipped++
		}
	}

	r.removeOrphans(destBase, remotePaths, opts.DryRun, &stats)
	if !opts.DryRun {
		r.pruneEmptyDirs(destBase)
	}

	if !opts.DryRun && stats.Errors == 0 {
		if err := r.store.Save(r.destination, folderPath, newSnap); err != nil {
			r.logger.Error("Could not persist sync state", logging.F("error", err.Error()))
			stats.Errors++
		}
	}

	return stats
}

// resolveFolder descends from the remote root child by child. A missing
// segment is a hard failure for this folder only.
func (r *Reconciler) resolveFolder(ctx context.Context, folderPath string) (provider.Node, error) {
	node, err := r.provider.Root(ctx)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeResolutionFailed, "failed to open remote root").WithCause(err)
	}
	if folderPath == "" {
		return node, nil
	}

	for _, segment := range strings.Split(folderPath, "/") {
		if segment == "" {
			continue
		}
		children, err := node.Children(ctx)
		if err != nil {
			return nil, utils.NewAppError(utils.ErrCodeResolutionFailed,
				fmt.Sprintf("failed to list remote folder while resolving %q", folderPath)).WithCause(err)
		}
		var next provider.Node
		for _, child := range children {
			if child.IsFolder() && child.Name() == segment {
				next = child
				break
			}
		}
		if next == nil {
			return nil, utils.NewAppError(utils.ErrCodeResolutionFailed,
				fmt.Sprintf("remote folder not found: %s (at %q)", folderPath, segment))
		}
		node = next
	}
	return node, nil
}

// removeOrphans deletes every regular local file under destBase whose
// relative path is absent from the remote listing. Orphan deletion runs
// only after the complete remote listing is known, so a file is never
// removed before its remote counterpart was visited. State files are
// exempt. Dry runs report and count without deleting.
func (r *Reconciler) removeOrphans(destBase string, remotePaths map[string]struct{}, dryRun bool, stats *Stats) {
	exists, err := afero.DirExists(r.fs, destBase)
	if err != nil || !exists {
		return
	}

	var orphans []string
	err = afero.Walk(r.fs, destBase, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		if snapshot.IsStateFile(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(destBase, path)
		if err != nil {
			return err
		}
		if _, ok := remotePaths[filepath.ToSlash(rel)]; !ok {
			orphans = append(orphans, path)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Local tree scan failed", logging.F("error", err.Error()))
		stats.Errors++
		return
	}

	sort.Strings(orphans)
	for _, path := range orphans {
		if dryRun {
			r.logger.Info("[dry run] Would delete", logging.F("path", path))
			stats.Deleted++
			continue
		}
		r.logger.Info("Deleting (no longer remote)", logging.F("path", path))
		if err := r.fs.Remove(path); err != nil {
			r.logger.Error("Delete failed",
				logging.F("path", path),
				logging.F("error", err.Error()),
			)
			stats.Errors++
			continue
		}
		stats.Deleted++
	}
}

// pruneEmptyDirs removes directories left empty by orphan deletion,
// deepest first so emptied parents are caught in the same pass.
func (r *Reconciler) pruneEmptyDirs(destBase string) {
	exists, err := afero.DirExists(r.fs, destBase)
	if err != nil || !exists {
		return
	}

	var dirs []string
	_ = afero.Walk(r.fs, destBase, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if info.IsDir() && path != destBase {
			dirs = append(dirs, path)
		}
		return nil
	})

	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		children, err := afero.ReadDir(r.fs, dir)
		if err != nil || len(children) > 0 {
			continue
		}
		if err := r.fs.Remove(dir); err == nil {
			r.logger.Debug("Removed empty directory", logging.F("path", dir))
		}
	}
}

func displayFolder(folderPath string) string {
	if folderPath == "" {
		return "(root)"
	}
	return folderPath
}
