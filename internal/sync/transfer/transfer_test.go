package transfer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/akarsten/driveback/internal/provider/memory"
	"github.com/akarsten/driveback/internal/utils"
)

func TestNeedsUpdate(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		content    []byte
		remoteTime time.Time
		hasTime    bool
		localData  []byte
		localTime  time.Time
		noLocal    bool
		want       bool
	}{
		{
			name:    "missing local file",
			content: []byte("abc"),
			noLocal: true,
			want:    true,
		},
		{
			name:      "size mismatch",
			content:   []byte("abcdef"),
			localData: []byte("abc"),
			localTime: base,
			want:      true,
		},
		{
			name:       "remote newer beyond tolerance",
			content:    []byte("abc"),
			remoteTime: base.Add(10 * time.Second),
			hasTime:    true,
			localData:  []byte("abc"),
			localTime:  base,
			want:       true,
		},
		{
			name:       "remote newer within tolerance",
			content:    []byte("abc"),
			remoteTime: base.Add(utils.ModTimeTolerance),
			hasTime:    true,
			localData:  []byte("abc"),
			localTime:  base,
			want:       false,
		},
		{
			name:       "local newer",
			content:    []byte("abc"),
			remoteTime: base,
			hasTime:    true,
			localData:  []byte("abc"),
			localTime:  base.Add(time.Hour),
			want:       false,
		},
		{
			name:      "same size no remote time",
			content:   []byte("abc"),
			localData: []byte("abc"),
			localTime: base,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			localPath := "/backup/file.txt"
			if !tt.noLocal {
				if err := afero.WriteFile(fs, localPath, tt.localData, 0644); err != nil {
					t.Fatalf("Failed to write local fixture: %v", err)
				}
				if err := fs.Chtimes(localPath, tt.localTime, tt.localTime); err != nil {
					t.Fatalf("Failed to set local mtime: %v", err)
				}
			}

			node := memory.NewFile("file.txt", tt.content)
			if tt.hasTime {
				node = node.WithModTime(tt.remoteTime)
			}

			d := NewDownloader(fs, nil)
			if got := d.NeedsUpdate(node, localPath); got != tt.want {
				t.Errorf("NeedsUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	node := memory.NewFile("report.pdf", []byte("content")).WithModTime(mtime)

	d := NewDownloader(fs, nil)
	if err := d.Download(context.Background(), node, "/backup/Documents/report.pdf", false); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := afero.ReadFile(fs, "/backup/Documents/report.pdf")
	if err != nil {
		t.Fatalf("Downloaded file missing: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Unexpected content: %q", data)
	}

	info, err := fs.Stat("/backup/Documents/report.pdf")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("Expected mtime %v, got %v", mtime, info.ModTime())
	}

	if exists, _ := afero.Exists(fs, "/backup/Documents/report.pdf"+utils.TempFileSuffix); exists {
		t.Error("Expected temp file to be gone after success")
	}
}

func TestDownloadMidStreamFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	node := memory.NewFile("big.bin", []byte("0123456789"))
	node.ReadErr = errors.New("connection reset")

	d := NewDownloader(fs, nil)
	err := d.Download(context.Background(), node, "/backup/big.bin", false)
	if err == nil {
		t.Fatal("Expected download to fail")
	}

	// A failed transfer must leave neither the destination nor the temp file.
	if exists, _ := afero.Exists(fs, "/backup/big.bin"); exists {
		t.Error("Expected no destination file after failed download")
	}
	if exists, _ := afero.Exists(fs, "/backup/big.bin"+utils.TempFileSuffix); exists {
		t.Error("Expected temp file to be cleaned up after failure")
	}
}

func TestDownloadDoesNotClobberOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/backup/doc.txt", []byte("previous"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	node := memory.NewFile("doc.txt", []byte("next version"))
	node.ReadErr = errors.New("connection reset")

	d := NewDownloader(fs, nil)
	if err := d.Download(context.Background(), node, "/backup/doc.txt", false); err == nil {
		t.Fatal("Expected download to fail")
	}

	data, err := afero.ReadFile(fs, "/backup/doc.txt")
	if err != nil {
		t.Fatalf("Previous file missing: %v", err)
	}
	if string(data) != "previous" {
		t.Errorf("Expected previous content preserved, got %q", data)
	}
}

func TestDownloadOpenFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	node := memory.NewFile("doc.txt", []byte("x"))
	node.OpenErr = errors.New("forbidden")

	d := NewDownloader(fs, nil)
	if err := d.Download(context.Background(), node, "/backup/doc.txt", false); err == nil {
		t.Fatal("Expected download to fail")
	}
	if exists, _ := afero.Exists(fs, "/backup/doc.txt"); exists {
		t.Error("Expected no file after open failure")
	}
}

// chtimesFailFs fails every Chtimes call while passing everything else
// through. Models filesystems that reject timestamp updates.
type chtimesFailFs struct {
	afero.Fs
}

func (f *chtimesFailFs) Chtimes(name string, atime, mtime time.Time) error {
	return errors.New("operation not supported")
}

func TestDownloadChtimesFailureNotFatal(t *testing.T) {
	fs := &chtimesFailFs{Fs: afero.NewMemMapFs()}
	mtime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	node := memory.NewFile("doc.txt", []byte("content")).WithModTime(mtime)

	d := NewDownloader(fs, nil)
	if err := d.Download(context.Background(), node, "/backup/doc.txt", false); err != nil {
		t.Fatalf("Expected download to succeed despite Chtimes failure, got %v", err)
	}

	data, err := afero.ReadFile(fs, "/backup/doc.txt")
	if err != nil {
		t.Fatalf("Downloaded file missing: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Unexpected content: %q", data)
	}
	if exists, _ := afero.Exists(fs, "/backup/doc.txt"+utils.TempFileSuffix); exists {
		t.Error("Expected temp file to be gone")
	}
}

func TestDownloadDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	node := memory.NewFile("doc.txt", []byte("x"))

	d := NewDownloader(fs, nil)
	if err := d.Download(context.Background(), node, "/backup/doc.txt", true); err != nil {
		t.Fatalf("Dry-run download failed: %v", err)
	}

	if exists, _ := afero.Exists(fs, "/backup"); exists {
		t.Error("Expected dry run to perform no filesystem writes")
	}
	if _, err := fs.Stat("/backup/doc.txt"); !os.IsNotExist(err) {
		t.Errorf("Expected no file after dry run, got %v", err)
	}
}
