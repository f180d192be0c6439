package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/scrub/cmd/scrub/tui"
	"github.com/jamesainslie/scrub/pkg/scrub/batch"
	"github.com/jamesainslie/scrub/pkg/scrub/changeset"
	"github.com/jamesainslie/scrub/pkg/scrub/config"
	"github.com/jamesainslie/scrub/pkg/scrub/logging"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// runClean is the main command handler.
func runClean(_ *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	expanded, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}

	absTarget, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absTarget); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absTarget)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	noInteractive := viper.GetBool("no_interactive")
	watch := viper.GetBool("watch_mode")
	if watch {
		// Watch mode loops batches; the TUI owns the terminal, so force
		// the report path.
		noInteractive = true
	}

	if err := initLogging(cfg, !noInteractive); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	printVerbose("Target: %s", absTarget)
	printVerbose("Options: strip_comments=%v collapse_blank=%v eol=%s ignore=%d patterns",
		opts.StripComments, opts.CollapseBlank, opts.EOL, len(opts.Ignore))

	store := changeset.New()
	coord := batch.NewCoordinator(batch.NewQueue(), store)

	if noInteractive {
		if watch {
			return runWatch(coord, absTarget, opts, cfg)
		}
		return runReport(coord, absTarget, opts)
	}

	return tui.Run(tui.Options{
		Target:      absTarget,
		Batch:       opts,
		Coordinator: coord,
	})
}

// buildOptions resolves batch options from config and flag overrides.
func buildOptions(cfg *config.Config) (types.BatchOptions, error) {
	opts := cfg.Options()

	if viper.GetBool("keep_comments") {
		opts.StripComments = false
	}
	if viper.GetBool("keep_blank_lines") {
		opts.CollapseBlank = false
	}
	if override := viper.GetString("eol_override"); override != "" {
		eol, err := types.ParseLineEnding(override)
		if err != nil {
			return types.BatchOptions{}, fmt.Errorf("invalid --eol %q: %w", override, err)
		}
		opts.EOL = eol
	}
	if extra := viper.GetStringSlice("extra_ignore"); len(extra) > 0 {
		opts.Ignore = append(opts.Ignore, extra...)
	}

	return opts, nil
}

// initLogging configures file logging from config. In TUI mode console
// output is suppressed so log lines cannot corrupt the alternate screen.
func initLogging(cfg *config.Config, tuiMode bool) error {
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	level := cfg.Logging.Level
	if getVerbose() {
		level = "debug"
	} else if getQuiet() {
		level = "error"
	}

	// Console output would interleave with the report's own lines, so
	// stderr logging is reserved for --verbose.
	consoleLevel := ""
	if getVerbose() {
		consoleLevel = "debug"
	}

	return logging.Init(logging.Config{
		Level:        level,
		Path:         logPath,
		Rotation:     parseRotationConfig(cfg.Logging.Rotation),
		Components:   cfg.Logging.Components,
		ConsoleLevel: consoleLevel,
		TUIMode:      tuiMode,
	})
}

// parseRotationConfig converts the human-readable config form.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.DefaultRotationConfig()

	if rc.MaxSize != "" {
		if size, err := humanize.ParseBytes(rc.MaxSize); err == nil {
			out.MaxSize = int64(size)
		}
	}
	if rc.MaxBackups > 0 {
		out.MaxBackups = rc.MaxBackups
	}
	return out
}
