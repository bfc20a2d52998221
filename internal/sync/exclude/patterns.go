// Package exclude decides whether a candidate path is skipped from sync.
package exclude

import (
	"path"
	"strings"
)

// Matcher evaluates exclude patterns against candidate paths. A pattern
// containing a wildcard character is matched with shell-glob semantics;
// anything else is a literal path or path prefix. Matching is pure and
// order-independent for a fixed pattern set.
type Matcher struct {
	patterns []string
}

// New creates a matcher for the given pattern set. Blank patterns are
// dropped; no implicit defaults are added.
func New(patterns []string) *Matcher {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return &Matcher{patterns: cleaned}
}

// IsExcluded reports whether any pattern matches the candidate path.
// relPath is the path relative to the synced folder, fullPath the path
// relative to the remote tree root; both are checked so a pattern can pin
// a location either way ("Projects/Old" inside the synced folder,
// "Documents/Projects/Old" from the root).
func (m *Matcher) IsExcluded(relPath, fullPath string) bool {
	if m == nil {
		return false
	}
	for _, p := range m.patterns {
		if strings.ContainsAny(p, "*?[") {
			if matched, _ := path.Match(p, relPath); matched {
				return true
			}
			if matched, _ := path.Match(p, fullPath); matched {
				return true
			}
			// A bare glob like ".git" or "*.tmp" also excludes any single
			// path segment at any depth.
			for _, segment := range strings.Split(fullPath, "/") {
				if matched, _ := path.Match(p, segment); matched {
					return true
				}
			}
			continue
		}

		stripped := strings.TrimSuffix(p, "/")
		if relPath == stripped || strings.HasPrefix(relPath, stripped+"/") {
			return true
		}
		if fullPath == stripped || strings.HasPrefix(fullPath, stripped+"/") {
			return true
		}
		// A plain name like ".git" also excludes any single path segment
		// at any depth, same as its glob counterpart.
		for _, segment := range strings.Split(fullPath, "/") {
			if segment == stripped {
				return true
			}
		}
	}
	return false
}

// Patterns returns the cleaned pattern set.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}
