// Package snapshot persists the per-folder etag cache that makes repeated
// sync runs cheap. One snapshot file exists per (destination, folderPath)
// pair, inside the destination directory.
package snapshot

import "strings"

// Snapshot is the persisted state for one sync root. Both maps are keyed
// by folder path relative to the sync root. Every file path listed in
// FolderFiles was confirmed to exist at the recorded etag when the
// snapshot was saved.
type Snapshot struct {
	FolderEtags map[string]string   `json:"folder_etags"`
	FolderFiles map[string][]string `json:"folder_files"`
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{
		FolderEtags: make(map[string]string),
		FolderFiles: make(map[string][]string),
	}
}

// Etag returns the cached etag for a folder, or "".
func (s *Snapshot) Etag(rel string) string {
	return s.FolderEtags[rel]
}

// Files returns the cached file list for a folder, or nil.
func (s *Snapshot) Files(rel string) []string {
	return s.FolderFiles[rel]
}

// SetFolder records a folder's etag and file list.
func (s *Snapshot) SetFolder(rel, etag string, files []string) {
	s.FolderEtags[rel] = etag
	s.FolderFiles[rel] = files
}

// Merge folds a fragment produced by a subtree walk into s. Fragment
// entries win on key collisions.
func (s *Snapshot) Merge(fragment *Snapshot) {
	if fragment == nil {
		return
	}
	for k, v := range fragment.FolderEtags {
		s.FolderEtags[k] = v
	}
	for k, v := range fragment.FolderFiles {
		s.FolderFiles[k] = v
	}
}

// Adopt copies the cached state for rel and every strict descendant of rel
// from cached into s. Used on a cache hit so the new snapshot stays
// complete for nested folders that were not re-walked.
func (s *Snapshot) Adopt(cached *Snapshot, rel string) {
	if cached == nil {
		return
	}
	prefix := rel + "/"
	for k, v := range cached.FolderEtags {
		if k == rel || strings.HasPrefix(k, prefix) {
			s.FolderEtags[k] = v
		}
	}
	for k, v := range cached.FolderFiles {
		if k == rel || strings.HasPrefix(k, prefix) {
			s.FolderFiles[k] = v
		}
	}
}

// Len returns the number of cached folders.
func (s *Snapshot) Len() int {
	return len(s.FolderEtags)
}
