// Package ignore implements the accept/reject decision for paths during
// discovery. Patterns ending in a path separator name directories to prune
// by exact segment match; all other patterns are basename globs.
package ignore

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/scrub/pkg/scrub/logging"
)

// Spec is a compiled set of ignore patterns.
type Spec struct {
	dirTokens map[string]struct{}
	fileGlobs []glob.Glob
	raw       []string
}

// Parse compiles a pattern list into a Spec. Patterns suffixed with "/" or
// "\" become directory-name tokens (separator stripped); the rest become
// case-sensitive basename globs with *, ? and [...] semantics. Blank
// patterns and globs that fail to compile are skipped.
func Parse(patterns []string) *Spec {
	s := &Spec{
		dirTokens: make(map[string]struct{}),
		raw:       make([]string, 0, len(patterns)),
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s.raw = append(s.raw, p)

		if strings.HasSuffix(p, "/") || strings.HasSuffix(p, "\\") {
			token := strings.TrimRight(p, "/\\")
			if token != "" {
				s.dirTokens[token] = struct{}{}
			}
			continue
		}

		g, err := glob.Compile(p)
		if err != nil {
			logging.Get("ignore").Warn("skipping invalid pattern", "pattern", p, "error", err)
			continue
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	return s
}

// MatchDir reports whether a directory with the given bare name (no
// separators) is ignored. Matching directories are pruned during
// traversal so their subtrees are never descended into.
func (s *Spec) MatchDir(name string) bool {
	_, ok := s.dirTokens[name]
	return ok
}

// MatchFile reports whether a file basename matches any filename pattern.
func (s *Spec) MatchFile(basename string) bool {
	for _, g := range s.fileGlobs {
		if g.Match(basename) {
			return true
		}
	}
	return false
}

// Patterns returns the accepted raw patterns, in input order.
func (s *Spec) Patterns() []string {
	out := make([]string, len(s.raw))
	copy(out, s.raw)
	return out
}
