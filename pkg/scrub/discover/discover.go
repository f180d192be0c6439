// Package discover walks a target and selects the files eligible for
// cleanup: supported extension, not ignored, not binary.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/scrub/pkg/scrub/ignore"
	"github.com/jamesainslie/scrub/pkg/scrub/logging"
	"github.com/jamesainslie/scrub/pkg/scrub/sniff"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// WalkError records a non-fatal failure on a single entry.
type WalkError struct {
	Path string
	Err  error
}

func (e WalkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Result is the outcome of a discovery pass.
type Result struct {
	// Candidates are the eligible file paths, sorted.
	Candidates []string

	// TotalChecked counts every regular file seen in non-pruned
	// directories, eligible or not.
	TotalChecked int64

	// TotalBytes is the combined size of the candidates.
	TotalBytes int64

	// Errors collects per-entry failures that did not abort the walk.
	Errors []WalkError
}

// Discover finds eligible files under target. A directory target is
// walked with ignored directories pruned; a file target degenerates to a
// single eligibility check. A stat failure on the target itself is fatal.
func Discover(target string, spec *ignore.Spec) (*Result, error) {
	log := logging.Get("discover")

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}

	if !info.IsDir() {
		res := &Result{TotalChecked: 1}
		if eligible(target, spec) {
			res.Candidates = []string{target}
			res.TotalBytes = info.Size()
		}
		return res, nil
	}

	var (
		mu         sync.Mutex
		candidates []string
		totalBytes int64
		walkErrs   []WalkError
		checked    atomic.Int64
	)

	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			mu.Lock()
			walkErrs = append(walkErrs, WalkError{Path: path, Err: err})
			mu.Unlock()
			log.Warn("walk error", "path", path, "error", err)
			return nil
		}

		if d.IsDir() {
			if path != target && spec.MatchDir(d.Name()) {
				log.Debug("pruning directory", "dir", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		checked.Add(1)

		if !eligible(path, spec) {
			return nil
		}

		var size int64
		if fi, statErr := d.Info(); statErr == nil {
			size = fi.Size()
		}

		mu.Lock()
		candidates = append(candidates, path)
		totalBytes += size
		mu.Unlock()
		return nil
	}

	if err := fastwalk.Walk(&conf, target, walkFn); err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return nil, fmt.Errorf("walking %s: %w", target, err)
	}

	sort.Strings(candidates)

	log.Info("discovery complete",
		"target", target,
		"checked", checked.Load(),
		"candidates", len(candidates))

	return &Result{
		Candidates:   candidates,
		TotalChecked: checked.Load(),
		TotalBytes:   totalBytes,
		Errors:       walkErrs,
	}, nil
}

// eligible reports whether a single file passes the extension allow-list,
// the ignore patterns, and the binary sniff.
func eligible(path string, spec *ignore.Spec) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !types.IsSupportedExt(ext) {
		return false
	}
	if spec.MatchFile(filepath.Base(path)) {
		return false
	}
	return !sniff.IsLikelyBinary(path)
}
