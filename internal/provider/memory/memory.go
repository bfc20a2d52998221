// Package memory provides an in-memory remote tree provider. It backs the
// sync engine's tests and doubles as a fixture provider: folder etags are
// settable and listing or stream failures are injectable per node.
package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"time"

	"github.com/akarsten/driveback/internal/provider"
)

// Provider is an in-memory remote tree.
type Provider struct {
	root *Folder
}

// New creates a provider rooted at the given folder.
func New(root *Folder) *Provider {
	if root == nil {
		root = NewFolder("", "")
	}
	return &Provider{root: root}
}

func (p *Provider) Root(ctx context.Context) (provider.Node, error) {
	return p.root, nil
}

// Folder is an in-memory folder node.
type Folder struct {
	name     string
	etag     string
	children map[string]provider.Node

	// ListErr, when set, makes Children fail. Mirrors a remote listing
	// failure on an otherwise reachable folder.
	ListErr error
}

// NewFolder creates a folder with the given name and etag.
func NewFolder(name, etag string) *Folder {
	return &Folder{
		name:     name,
		etag:     etag,
		children: make(map[string]provider.Node),
	}
}

func (f *Folder) Name() string               { return f.name }
func (f *Folder) IsFolder() bool             { return true }
func (f *Folder) Etag() string               { return f.etag }
func (f *Folder) Size() (int64, bool)        { return 0, false }
func (f *Folder) ModTime() (time.Time, bool) { return time.Time{}, false }

// SetEtag replaces the folder's change token.
func (f *Folder) SetEtag(etag string) { f.etag = etag }

// Add attaches a child node, replacing any child with the same name.
func (f *Folder) Add(child provider.Node) *Folder {
	f.children[child.Name()] = child
	return f
}

// Remove detaches the named child.
func (f *Folder) Remove(name string) {
	delete(f.children, name)
}

// Child returns the named child, or nil.
func (f *Folder) Child(name string) provider.Node {
	return f.children[name]
}

func (f *Folder) Children(ctx context.Context) ([]provider.Node, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	names := make([]string, 0, len(f.children))
	for name := range f.children {
		names = append(names, name)
	}
	sort.Strings(names)
	nodes := make([]provider.Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, f.children[name])
	}
	return nodes, nil
}

func (f *Folder) Open(ctx context.Context) (io.ReadCloser, error) {
	return nil, io.ErrUnexpectedEOF
}

// File is an in-memory file node.
type File struct {
	name    string
	content []byte
	modTime time.Time
	hasTime bool

	// OpenErr, when set, makes Open fail before any bytes are produced.
	OpenErr error
	// ReadErr, when set, makes the content stream fail midway, after
	// roughly half the content has been read.
	ReadErr error
}

// NewFile creates a file node with the given content.
func NewFile(name string, content []byte) *File {
	return &File{name: name, content: content}
}

// WithModTime sets the file's reported modification time (UTC).
func (f *File) WithModTime(t time.Time) *File {
	f.modTime = t.UTC()
	f.hasTime = true
	return f
}

func (f *File) Name() string   { return f.name }
func (f *File) IsFolder() bool { return false }
func (f *File) Etag() string   { return "" }

func (f *File) Size() (int64, bool) {
	return int64(len(f.content)), true
}

func (f *File) ModTime() (time.Time, bool) {
	return f.modTime, f.hasTime
}

func (f *File) Children(ctx context.Context) ([]provider.Node, error) {
	return nil, nil
}

func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	if f.ReadErr != nil {
		return &failingReader{
			data: f.content[:len(f.content)/2],
			err:  f.ReadErr,
		}, nil
	}
	return io.NopCloser(bytes.NewReader(f.content)), nil
}

type failingReader struct {
	data []byte
	err  error
	off  int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

func (r *failingReader) Close() error { return nil }
