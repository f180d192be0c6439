// Package changeset holds the in-memory results of a batch run: the
// decoded originals and rewritten finals for every file the pipeline
// changed, with save and single-generation undo semantics.
package changeset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jamesainslie/scrub/pkg/scrub/logging"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// SaveError records a per-path save failure.
type SaveError struct {
	Path string
	Err  error
}

func (e SaveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	originals map[string]string
	finals    map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		originals: make(map[string]string),
		finals:    make(map[string]string),
	}
}

// RecordBatch commits one batch run. The original map is replaced
// wholesale with this run's changed files, so only the latest run can be
// undone. Finals are upserted and accumulate across runs until Reset.
func (s *Store) RecordBatch(results []types.FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.originals = make(map[string]string)
	for _, r := range results {
		if !r.Changed() {
			continue
		}
		s.originals[r.Path] = r.Original
		s.finals[r.Path] = r.Final
	}
}

// Save writes the cached final text for each path verbatim, creating
// parent directories as needed. The stored text already carries the
// resolved line terminators. A path with no cached final is a per-path
// error; the rest still save.
func (s *Store) Save(paths []string) (int, []SaveError) {
	log := logging.Get("changeset")

	saved := 0
	var errs []SaveError
	for _, path := range paths {
		s.mu.Lock()
		final, ok := s.finals[path]
		s.mu.Unlock()

		if !ok {
			errs = append(errs, SaveError{Path: path, Err: fmt.Errorf("no cached content")})
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			errs = append(errs, SaveError{Path: path, Err: err})
			continue
		}
		if err := os.WriteFile(path, []byte(final), 0o644); err != nil {
			errs = append(errs, SaveError{Path: path, Err: err})
			continue
		}
		saved++
	}

	log.Info("save complete", "saved", saved, "failed", len(errs))
	return saved, errs
}

// SaveAll saves every path with a cached final.
func (s *Store) SaveAll() (int, []SaveError) {
	return s.Save(s.FinalPaths())
}

// UndoSession restores the cached finals to the originals of the latest
// batch and clears the undo set. Memory only, never touches disk.
// Returns (0, false) when there is nothing to undo.
func (s *Store) UndoSession() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.originals) == 0 {
		return 0, false
	}

	count := 0
	for path, original := range s.originals {
		s.finals[path] = original
		count++
	}
	s.originals = make(map[string]string)

	logging.Get("changeset").Info("undo applied", "files", count)
	return count, true
}

// Reset clears both maps; used when the target selection changes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.originals = make(map[string]string)
	s.finals = make(map[string]string)
}

// Content returns the cached original and final text for a path.
// The original is empty when the path is outside the current undo set.
func (s *Store) Content(path string) (original, final string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	final, ok = s.finals[path]
	original = s.originals[path]
	return original, final, ok
}

// FinalPaths returns every path with a cached final, sorted.
func (s *Store) FinalPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.finals))
	for path := range s.finals {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// CanUndo reports whether the latest batch left anything to undo.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.originals) > 0
}

// Len returns the number of cached finals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.finals)
}
