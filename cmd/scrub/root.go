package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/scrub/pkg/scrub/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "scrub [path]",
		Short: "Clean comments and whitespace from source trees",
		Long: `Scrub rewrites source files in place: it strips comments, collapses
blank-line runs, pretty-prints JSON and XML, and normalizes line endings.
Nothing touches disk until you save the previewed changes.

By default, scrub launches an interactive TUI to review changes before
saving. Use --no-interactive for plain text output.

Examples:
  scrub                        # Clean current directory with TUI
  scrub ~/project/src          # Clean a specific tree
  scrub main.py                # Clean a single file
  scrub -n --write .           # Non-interactive, save after confirmation
  scrub -n -w -y --watch .     # Re-clean and save on every change
  scrub --keep-comments .      # Only collapse blanks and fix line endings`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClean,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/scrub/config.yaml)")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, use text output")
	rootCmd.PersistentFlags().BoolP("write", "w", false, "save changed files (non-interactive mode)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "skip save confirmation")
	rootCmd.PersistentFlags().Bool("watch", false, "re-run when the tree changes (implies --no-interactive)")
	rootCmd.PersistentFlags().String("eol", "", "target line ending: crlf or lf")
	rootCmd.PersistentFlags().Bool("keep-comments", false, "do not strip comments")
	rootCmd.PersistentFlags().Bool("keep-blank-lines", false, "do not collapse blank lines")
	rootCmd.PersistentFlags().StringSliceP("ignore", "i", nil, "extra ignore patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("write", rootCmd.PersistentFlags().Lookup("write"))
	_ = viper.BindPFlag("yes", rootCmd.PersistentFlags().Lookup("yes"))
	_ = viper.BindPFlag("watch_mode", rootCmd.PersistentFlags().Lookup("watch"))
	_ = viper.BindPFlag("eol_override", rootCmd.PersistentFlags().Lookup("eol"))
	_ = viper.BindPFlag("keep_comments", rootCmd.PersistentFlags().Lookup("keep-comments"))
	_ = viper.BindPFlag("keep_blank_lines", rootCmd.PersistentFlags().Lookup("keep-blank-lines"))
	_ = viper.BindPFlag("extra_ignore", rootCmd.PersistentFlags().Lookup("ignore"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "scrub"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "scrub"))
		}
	}

	viper.SetEnvPrefix("SCRUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("clean.strip_comments", config.DefaultStripComments)
	viper.SetDefault("clean.collapse_blank", config.DefaultCollapseBlank)
	viper.SetDefault("clean.eol", config.DefaultEOL)
	viper.SetDefault("ignore", config.DefaultIgnorePatterns)

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// getWrite returns true if changed files should be saved.
func getWrite() bool {
	return viper.GetBool("write")
}

// getYes returns true if confirmations should be skipped.
func getYes() bool {
	return viper.GetBool("yes")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
