package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/akarsten/driveback/internal/logging"
	"github.com/akarsten/driveback/internal/provider"
	"github.com/akarsten/driveback/internal/utils"
)

const (
	folderMimeType  = "application/vnd.google-apps.folder"
	workspacePrefix = "application/vnd.google-apps."
	listFields      = "nextPageToken, files(id, name, mimeType, size, modifiedTime)"
	listPageSize    = 1000
)

// Provider exposes a Drive account (or a folder subtree of it) as a
// remote tree.
type Provider struct {
	client *Client
	rootID string
	logger logging.Logger
}

// NewProvider creates a provider rooted at rootID. Empty rootID means the
// account's drive root.
func NewProvider(client *Client, rootID string, logger logging.Logger) *Provider {
	if rootID == "" {
		rootID = "root"
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Provider{client: client, rootID: rootID, logger: logger}
}

// Root fetches the root node. Fetching the metadata up front surfaces
// auth and permission problems before any walking starts.
func (p *Provider) Root(ctx context.Context) (provider.Node, error) {
	file, err := ExecuteWithRetry(ctx, p.client, func() (*driveapi.File, error) {
		return p.client.Service().Files.Get(p.rootID).
			Fields("id, name, mimeType").
			SupportsAllDrives(true).
			Context(ctx).Do()
	})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrCodeResolutionFailed,
			fmt.Sprintf("failed to resolve remote root %s", p.rootID)).WithCause(err)
	}
	if file.MimeType != folderMimeType {
		return nil, utils.NewAppError(utils.ErrCodeResolutionFailed,
			fmt.Sprintf("remote root %s is not a folder", p.rootID))
	}
	return &node{p: p, id: file.Id, name: file.Name, folder: true}, nil
}

// node is one Drive file or folder.
type node struct {
	p       *Provider
	id      string
	name    string
	folder  bool
	size    int64
	hasSize bool
	modTime string // RFC 3339, empty when unknown
}

func (n *node) Name() string { return n.name }

func (n *node) IsFolder() bool { return n.folder }

// Etag returns "". Drive exposes no fingerprint that covers a folder's
// content, so folders are always re-walked.
func (n *node) Etag() string { return "" }

func (n *node) Size() (int64, bool) {
	return n.size, n.hasSize
}

func (n *node) ModTime() (time.Time, bool) {
	if n.modTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, n.modTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Children lists the folder's direct children. Workspace documents
// (Docs, Sheets, ...) have no binary content to mirror and are skipped.
func (n *node) Children(ctx context.Context) ([]provider.Node, error) {
	if !n.folder {
		return nil, nil
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", n.id)
	var children []provider.Node
	pageToken := ""

	for {
		list, err := ExecuteWithRetry(ctx, n.p.client, func() (*driveapi.FileList, error) {
			call := n.p.client.Service().Files.List().
				Q(query).
				Fields(listFields).
				PageSize(listPageSize).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		})
		if err != nil {
			return nil, err
		}

		for _, f := range list.Files {
			if f.MimeType != folderMimeType && strings.HasPrefix(f.MimeType, workspacePrefix) {
				n.p.logger.Debug("Skipping workspace document",
					logging.F("name", f.Name),
					logging.F("mimeType", f.MimeType),
				)
				continue
			}
			children = append(children, &node{
				p:       n.p,
				id:      f.Id,
				name:    f.Name,
				folder:  f.MimeType == folderMimeType,
				size:    f.Size,
				hasSize: f.MimeType != folderMimeType && f.Size > 0,
				modTime: f.ModifiedTime,
			})
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return children, nil
}

// Open streams the file content.
func (n *node) Open(ctx context.Context) (io.ReadCloser, error) {
	if n.folder {
		return nil, fmt.Errorf("cannot open folder %s for reading", n.name)
	}
	resp, err := n.p.client.Service().Files.Get(n.id).
		SupportsAllDrives(true).
		Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
