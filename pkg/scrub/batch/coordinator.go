// Package batch runs discovery and the transformation pipeline over a
// target off the interactive path, reporting progress through a polled
// event queue.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/scrub/pkg/scrub/changeset"
	"github.com/jamesainslie/scrub/pkg/scrub/discover"
	"github.com/jamesainslie/scrub/pkg/scrub/ignore"
	"github.com/jamesainslie/scrub/pkg/scrub/logging"
	"github.com/jamesainslie/scrub/pkg/scrub/transform"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// interFileDelay keeps the event stream readable on fast disks.
const interFileDelay = 5 * time.Millisecond

// Coordinator drives batch runs against a store, emitting events to a
// queue. At most one RunBatch may be in flight; callers enforce that by
// not starting a second batch while one runs.
type Coordinator struct {
	queue *Queue
	store *changeset.Store
}

// NewCoordinator wires a coordinator to its queue and store.
func NewCoordinator(queue *Queue, store *changeset.Store) *Coordinator {
	return &Coordinator{queue: queue, store: store}
}

// Queue returns the event queue consumers should drain.
func (c *Coordinator) Queue() *Queue {
	return c.queue
}

// Store returns the change-set store the coordinator commits to.
func (c *Coordinator) Store() *changeset.Store {
	return c.store
}

// RunBatch processes every eligible file under target. It runs on the
// caller's goroutine and communicates only through the event queue:
// status, bounds, per-file steps and list-adds, then a single done event
// carrying the modified count. Results are buffered locally and committed
// to the store in one RecordBatch call after the loop.
func (c *Coordinator) RunBatch(target string, opts types.BatchOptions) {
	opts = opts.Clone()
	runID := uuid.NewString()[:8]
	log := logging.Get("batch").With("run", runID)

	log.Info("batch started", "target", target)
	c.queue.Push(types.StatusEvent{Text: fmt.Sprintf("Scanning %s...", target)})

	spec := ignore.Parse(opts.Ignore)
	res, err := discover.Discover(target, spec)
	if err != nil {
		log.Error("discovery failed", "error", err)
		c.queue.Push(types.AlertEvent{
			Severity: types.SeverityError,
			Title:    "Scan failed",
			Message:  err.Error(),
		})
		c.queue.Push(types.DoneEvent{Modified: 0})
		return
	}

	if len(res.Candidates) == 0 {
		// Picking a single file that cannot be cleaned is a user error,
		// not an empty scan.
		if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
			log.Warn("ineligible file target", "target", target)
			c.queue.Push(types.AlertEvent{
				Severity: types.SeverityError,
				Title:    "Invalid selection",
				Message:  fmt.Sprintf("%s is not a cleanable file.", filepath.Base(target)),
			})
		} else {
			log.Info("no candidates", "checked", res.TotalChecked)
			c.queue.Push(types.AlertEvent{
				Severity: types.SeverityInfo,
				Title:    "Nothing to do",
				Message:  fmt.Sprintf("Checked %d files, none eligible for cleanup.", res.TotalChecked),
			})
		}
		c.queue.Push(types.DoneEvent{Modified: 0})
		return
	}

	c.queue.Push(types.BoundsEvent{Total: len(res.Candidates)})

	pipeOpts := transform.Options{
		StripComments: opts.StripComments,
		CollapseBlank: opts.CollapseBlank,
		EOL:           opts.EOL,
	}

	results := make([]types.FileResult, 0, len(res.Candidates))
	modified := 0
	for _, path := range res.Candidates {
		c.queue.Push(types.StepEvent{Delta: 0, File: filepath.Base(path)})

		fr, err := transform.Process(path, pipeOpts)
		if err != nil {
			log.Warn("pipeline failed", "path", path, "error", err)
			c.queue.Push(types.AlertEvent{
				Severity: types.SeverityWarning,
				Title:    "Read error",
				Message:  err.Error(),
			})
		} else {
			results = append(results, fr)
			if fr.Changed() {
				modified++
				c.queue.Push(types.ListAddEvent{
					Path:    path,
					Display: displayName(target, path),
				})
			}
		}

		c.queue.Push(types.StepEvent{Delta: 1})
		time.Sleep(interFileDelay)
	}

	c.store.RecordBatch(results)

	log.Info("batch complete", "candidates", len(res.Candidates), "modified", modified)
	c.queue.Push(types.DoneEvent{Modified: modified})
}

// displayName is the list label for a changed file: relative to a
// directory target, bare basename for a single-file target.
func displayName(target, path string) string {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Base(path)
	}
	if rel, err := filepath.Rel(target, path); err == nil {
		return rel
	}
	return filepath.Base(path)
}
