// Package provider defines the remote tree capability consumed by the sync
// engine. A Provider exposes the root of a remote hierarchical file tree;
// Nodes are transient handles valid for the duration of one traversal.
// The engine never depends on how a provider transports bytes or
// authenticates.
package provider

import (
	"context"
	"io"
	"time"
)

// Node is a handle into the remote tree, either a file or a folder.
type Node interface {
	// Name returns the node's base name.
	Name() string

	// IsFolder reports whether the node is a folder.
	IsFolder() bool

	// Etag returns the folder's opaque change token. Equal etags across two
	// observations mean the folder's content set is unchanged. Providers
	// without a per-folder fingerprint return "", which disables cache hits
	// for their folders.
	Etag() string

	// Size returns the file's size in bytes. ok is false when the remote
	// service does not report a size for this node.
	Size() (size int64, ok bool)

	// ModTime returns the file's modification instant in UTC. ok is false
	// when the remote service does not report one.
	ModTime() (mtime time.Time, ok bool)

	// Children enumerates a folder's direct children.
	Children(ctx context.Context) ([]Node, error)

	// Open returns the file's content stream. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Provider exposes the root of a remote tree.
type Provider interface {
	Root(ctx context.Context) (Node, error)
}
