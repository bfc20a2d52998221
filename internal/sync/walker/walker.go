// Package walker enumerates a remote subtree, short-circuiting into cached
// folder listings when a folder's etag is unchanged. The etag is treated as
// a folder-content fingerprint: equality with the cached value means the
// cached file list is still accurate and the whole subtree can be skipped
// without network traversal.
package walker

import (
	"context"

	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/provider"
	"github.com/akarsten/driveback/internal/sync/exclude"
	"github.com/akarsten/driveback/internal/sync/snapshot"
)

// Entry is one file produced by a walk. Path is relative to the synced
// folder. Source is nil for cache hits: the file sits in an unchanged
// folder and is already correct locally.
type Entry struct {
	Path   string
	Source provider.Node
}

// Counters track walk progress for reporting. ListFailures counts folders
// whose listing failed and degraded to an empty subtree, so those are not
// silently confused with genuinely empty folders.
type Counters struct {
	Files        int
	Folders      int
	CacheHits    int
	ListFailures int
}

// Walker traverses remote trees.
type Walker struct {
	matcher *exclude.Matcher
	logger  logging.Logger
}

// New creates a walker. A nil matcher excludes nothing; a nil logger
// discards diagnostics.
func New(matcher *exclude.Matcher, logger logging.Logger) *Walker {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Walker{matcher: matcher, logger: logger}
}

// Walk enumerates node's subtree depth first. relPath is node's path
// relative to the synced folder ("" for the folder itself); rootPath is
// the synced folder's path from the remote tree root. It returns the file
// entries, a snapshot fragment covering the walked subtree, and progress
// counters. Each recursive call returns its own fragment, composed by the
// caller, so no snapshot state is shared across stack frames.
func (w *Walker) Walk(ctx context.Context, node provider.Node, relPath, rootPath string, cached *snapshot.Snapshot) ([]Entry, *snapshot.Snapshot, Counters) {
	if cached == nil {
		cached = snapshot.New()
	}
	counters := Counters{}
	entries, frag := w.walk(ctx, node, relPath, rootPath, cached, &counters)
	return entries, frag, counters
}

func (w *Walker) walk(ctx context.Context, node provider.Node, relPath, rootPath string, cached *snapshot.Snapshot, counters *Counters) ([]Entry, *snapshot.Snapshot) {
	frag := snapshot.New()

	children, err := node.Children(ctx)
	if err != nil {
		// One inaccessible subtree must not abort the whole walk. The
		// folder degrades to an empty listing and is counted separately.
		counters.ListFailures++
		w.logger.Warn("Could not list remote folder, treating as empty",
			logging.F("path", displayPath(relPath)),
			logging.F("error", err.Error()),
		)
		return nil, frag
	}

	var entries []Entry
	for _, child := range children {
		childRel := child.Name()
		if relPath != "" {
			childRel = relPath + "/" + child.Name()
		}
		childFull := childRel
		if rootPath != "" {
			childFull = rootPath + "/" + childRel
		}

		if w.matcher.IsExcluded(childRel, childFull) {
			w.logger.Info("Skipped (exclude)", logging.F("path", childFull))
			continue
		}

		if !child.IsFolder() {
			counters.Files++
			entries = append(entries, Entry{Path: childRel, Source: child})
			continue
		}

		counters.Folders++
		etag := child.Etag()
		cachedEtag := cached.Etag(childRel)
		cachedFiles := cached.Files(childRel)

		if etag != "" && etag == cachedEtag && len(cachedFiles) > 0 {
			// Cache hit: reuse the file list without recursing, and carry
			// over nested folder state so a future run can still hit the
			// cache below this folder.
			counters.CacheHits++
			counters.Files += len(cachedFiles)
			w.logger.Info("Folder unchanged (etag cache)",
				logging.F("path", childFull),
				logging.F("files", len(cachedFiles)),
			)
			for _, f := range cachedFiles {
				entries = append(entries, Entry{Path: f})
			}
			frag.Adopt(cached, childRel)
			continue
		}

		w.logger.Debug("Scanning remote folder",
			logging.F("path", childFull),
			logging.F("files", counters.Files),
			logging.F("folders", counters.Folders),
			logging.F("cacheHits", counters.CacheHits),
		)
		subEntries, subFrag := w.walk(ctx, child, childRel, rootPath, cached, counters)
		entries = append(entries, subEntries...)
		frag.Merge(subFrag)
		if etag != "" {
			paths := make([]string, len(subEntries))
			for i, e := range subEntries {
				paths[i] = e.Path
			}
			frag.SetFolder(childRel, etag, paths)
		}
	}

	return entries, frag
}

func displayPath(relPath string) string {
	if relPath == "" {
		return "/"
	}
	return relPath
}
