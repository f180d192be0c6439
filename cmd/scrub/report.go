package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/scrub/pkg/scrub/batch"
	"github.com/jamesainslie/scrub/pkg/scrub/config"
	"github.com/jamesainslie/scrub/pkg/scrub/ignore"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
	"github.com/jamesainslie/scrub/pkg/scrub/watcher"
)

// pollInterval matches the TUI's consumer tick.
const pollInterval = 100 * time.Millisecond

var (
	reportChangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reportAlertStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	reportErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	reportDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// runReport runs one batch in plain text mode, then saves if requested.
func runReport(coord *batch.Coordinator, target string, opts types.BatchOptions) error {
	modified, err := reportBatch(coord, target, opts)
	if err != nil {
		return err
	}
	if modified == 0 {
		return nil
	}

	if !getWrite() {
		printInfo("%s", reportDimStyle.Render("Run again with --write to save these changes."))
		return nil
	}

	return saveChanges(coord)
}

// reportBatch runs the batch on a worker goroutine and drains the event
// queue on a fixed tick, printing progress as it arrives. Returns the
// modified-file count.
func reportBatch(coord *batch.Coordinator, target string, opts types.BatchOptions) (int, error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		coord.RunBatch(target, opts)
	}()

	modified := 0
	finished := false
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for !finished {
		<-ticker.C
		for _, ev := range coord.Queue().Drain() {
			switch e := ev.(type) {
			case types.StatusEvent:
				printInfo("%s", e.Text)
			case types.BoundsEvent:
				printInfo("Processing %d files...", e.Total)
			case types.ListAddEvent:
				printInfo("  %s %s", reportChangedStyle.Render("~"), e.Display)
			case types.AlertEvent:
				style := reportAlertStyle
				if e.Severity == types.SeverityError {
					style = reportErrorStyle
				}
				printInfo("%s", style.Render(fmt.Sprintf("%s: %s", e.Title, e.Message)))
			case types.DoneEvent:
				modified = e.Modified
				finished = true
			}
		}
	}
	<-done

	if modified > 0 {
		var totalBytes uint64
		for _, path := range coord.Store().FinalPaths() {
			if _, final, ok := coord.Store().Content(path); ok {
				totalBytes += uint64(len(final))
			}
		}
		printInfo("%d file(s) changed, %s of cleaned output pending.",
			modified, humanize.Bytes(totalBytes))
	} else {
		printInfo("No changes.")
	}

	return modified, nil
}

// saveChanges writes all cached finals, asking first unless --yes.
func saveChanges(coord *batch.Coordinator) error {
	paths := coord.Store().FinalPaths()

	if !getYes() {
		fmt.Printf("Save %d file(s)? [y/N] ", len(paths))
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			printInfo("Aborted, nothing written.")
			return nil
		}
	}

	saved, errs := coord.Store().SaveAll()
	for _, se := range errs {
		printError("saving %s: %v", se.Path, se.Err)
	}
	printInfo("Saved %d file(s).", saved)
	if len(errs) > 0 {
		return fmt.Errorf("%d file(s) failed to save", len(errs))
	}
	return nil
}

// runWatch loops report batches on debounced filesystem changes until
// interrupted. Saving rewritten files re-triggers the watcher once, but
// the pipeline is idempotent so the follow-up run finds nothing to do.
func runWatch(coord *batch.Coordinator, target string, opts types.BatchOptions, cfg *config.Config) error {
	w, err := watcher.New(ignore.Parse(opts.Ignore), time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(target); err != nil {
		return fmt.Errorf("watching %s: %w", target, err)
	}

	runOnce := func() {
		if modified, err := reportBatch(coord, target, opts); err == nil && modified > 0 && getWrite() {
			if err := saveChanges(coord); err != nil {
				printError("%v", err)
			}
		}
	}

	runOnce()
	printInfo("%s", reportDimStyle.Render("Watching for changes. Ctrl-C to stop."))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		printInfo("\nStopping watch.")
		cancel()
	}()

	w.Run(ctx, runOnce)
	return nil
}
