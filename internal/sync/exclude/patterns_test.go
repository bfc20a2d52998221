package exclude

import "testing"

func TestIsExcluded(t *testing.T) {
	matcher := New([]string{".git", "*.tmp", "Documents/Old"})

	tests := []struct {
		name     string
		relPath  string
		fullPath string
		want     bool
	}{
		{
			name:     "literal segment at depth",
			relPath:  "project/.git",
			fullPath: "Code/project/.git",
			want:     true,
		},
		{
			name:     "descendant of literal segment",
			relPath:  "project/.git/config",
			fullPath: "Code/project/.git/config",
			want:     true,
		},
		{
			name:     "literal segment only in full path",
			relPath:  "hooks/pre-commit",
			fullPath: "Code/.git/hooks/pre-commit",
			want:     true,
		},
		{
			name:     "glob on file extension",
			relPath:  "cache/data.tmp",
			fullPath: "Code/cache/data.tmp",
			want:     true,
		},
		{
			name:     "glob matches segment anywhere",
			relPath:  "a/b/file.tmp",
			fullPath: "Code/a/b/file.tmp",
			want:     true,
		},
		{
			name:     "literal path against full path",
			relPath:  "Old/report.pdf",
			fullPath: "Documents/Old/report.pdf",
			want:     true,
		},
		{
			name:     "literal path against relative path",
			relPath:  "Documents/Old",
			fullPath: "Backup/Documents/Old",
			want:     true,
		},
		{
			name:     "similar name is not a prefix match",
			relPath:  "Documents/Older/file.txt",
			fullPath: "Documents/Older/file.txt",
			want:     false,
		},
		{
			name:     "unrelated path",
			relPath:  "Photos/2024/img.jpg",
			fullPath: "Photos/2024/img.jpg",
			want:     false,
		},
		{
			name:     "extension not globbed",
			relPath:  "notes.txt",
			fullPath: "Documents/notes.txt",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.IsExcluded(tt.relPath, tt.fullPath)
			if got != tt.want {
				t.Errorf("IsExcluded(%q, %q) = %v, want %v", tt.relPath, tt.fullPath, got, tt.want)
			}
		})
	}
}

func TestNoDefaultPatterns(t *testing.T) {
	matcher := New(nil)

	if matcher.IsExcluded(".git", "Code/.git") {
		t.Error("Expected empty pattern set to exclude nothing")
	}
	if len(matcher.Patterns()) != 0 {
		t.Errorf("Expected no patterns, got %v", matcher.Patterns())
	}
}

func TestBlankPatternsDropped(t *testing.T) {
	matcher := New([]string{"", "  ", ".git"})

	if got := len(matcher.Patterns()); got != 1 {
		t.Errorf("Expected 1 pattern after cleaning, got %d", got)
	}
	if !matcher.IsExcluded(".git", ".git") {
		t.Error("Expected remaining pattern to still match")
	}
}

func TestTrailingSlashPattern(t *testing.T) {
	matcher := New([]string{"node_modules/"})

	if !matcher.IsExcluded("node_modules", "app/node_modules") {
		t.Error("Expected trailing-slash pattern to match the directory itself")
	}
	if !matcher.IsExcluded("node_modules/pkg/index.js", "app/node_modules/pkg/index.js") {
		t.Error("Expected trailing-slash pattern to match descendants")
	}
}

func TestNilMatcher(t *testing.T) {
	var matcher *Matcher

	if matcher.IsExcluded("a", "a") {
		t.Error("Expected nil matcher to exclude nothing")
	}
}
