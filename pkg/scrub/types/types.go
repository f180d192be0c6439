// Package types provides core data types for the scrub source cleaner.
// It includes the batch option snapshot, the progress event vocabulary
// shared between the batch coordinator and its consumers, and the
// supported-extension allow-list.
package types

import (
	"fmt"
	"strings"
)

// LineEnding is the target line-terminator convention for cleaned files.
type LineEnding string

// Supported line endings.
const (
	EOLCRLF LineEnding = "crlf"
	EOLLF   LineEnding = "lf"
)

// ErrInvalidLineEnding indicates an unrecognized line-ending name.
var ErrInvalidLineEnding = fmt.Errorf("invalid line ending")

// ParseLineEnding parses a line-ending name ("crlf" or "lf", any case).
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crlf", "windows":
		return EOLCRLF, nil
	case "lf", "unix":
		return EOLLF, nil
	default:
		return EOLLF, fmt.Errorf("%w: %q", ErrInvalidLineEnding, s)
	}
}

// Sequence returns the terminator byte sequence for the line ending.
func (e LineEnding) Sequence() string {
	if e == EOLCRLF {
		return "\r\n"
	}
	return "\n"
}

// BatchOptions is the immutable option snapshot taken when a batch starts.
// Callers pass a copy so later edits to the ignore list cannot race an
// in-flight batch.
type BatchOptions struct {
	// StripComments enables the per-family comment stripper.
	StripComments bool

	// CollapseBlank enables blank-line collapsing.
	CollapseBlank bool

	// EOL is the target line-ending for cleaned output.
	EOL LineEnding

	// Ignore contains ignore patterns: basename globs, or directory-name
	// tokens when suffixed with a path separator.
	Ignore []string
}

// Clone returns a deep copy of the options, including the ignore slice.
func (o BatchOptions) Clone() BatchOptions {
	c := o
	c.Ignore = make([]string, len(o.Ignore))
	copy(c.Ignore, o.Ignore)
	return c
}

// FileResult pairs a file's decoded content with its cleaned form.
type FileResult struct {
	// Path is the absolute path of the file.
	Path string

	// Original is the text exactly as decoded, terminators preserved.
	Original string

	// Final is the pipeline output in the target line-ending form.
	Final string
}

// Changed reports whether the pipeline altered the file.
func (r FileResult) Changed() bool {
	return r.Original != r.Final
}

// Severity classifies an alert event.
type Severity int

// Alert severities from least to most severe.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a one-directional progress notification from the batch
// coordinator to its consumer. Consumers never send commands back.
// All events double as Bubble Tea messages.
type Event interface {
	isEvent()
}

// StatusEvent updates the consumer's status line.
type StatusEvent struct {
	Text string
}

// BoundsEvent announces the number of candidate files in the batch,
// sizing the consumer's progress display.
type BoundsEvent struct {
	Total int
}

// StepEvent advances the progress display. Delta is 0 when the event only
// names the file about to be processed and 1 when a file finished.
type StepEvent struct {
	Delta int
	File  string
}

// ListAddEvent adds a changed file to the consumer's result list.
type ListAddEvent struct {
	// Path is the absolute path of the changed file.
	Path string

	// Display is the path shown to the user: relative to the batch target
	// for directory targets, the bare basename otherwise.
	Display string
}

// DoneEvent marks the end of a batch run.
type DoneEvent struct {
	// Modified is the number of files the pipeline changed.
	Modified int
}

// AlertEvent surfaces a user-facing message.
type AlertEvent struct {
	Severity Severity
	Title    string
	Message  string
}

func (StatusEvent) isEvent()  {}
func (BoundsEvent) isEvent()  {}
func (StepEvent) isEvent()    {}
func (ListAddEvent) isEvent() {}
func (DoneEvent) isEvent()    {}
func (AlertEvent) isEvent()   {}

// SupportedExtensions lists the file extensions the pipeline accepts,
// lower-cased with leading dot.
var SupportedExtensions = []string{
	".py", ".c", ".h", ".html", ".css", ".scss", ".less",
	".js", ".jsx", ".ts", ".tsx",
	".php", ".cs", ".cpp", ".hpp", ".java",
	".json", ".xml", ".yaml", ".yml", ".md",
}

var supportedExtSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SupportedExtensions))
	for _, ext := range SupportedExtensions {
		m[ext] = struct{}{}
	}
	return m
}()

// IsSupportedExt reports whether the extension (with leading dot, any
// case) is in the supported set.
func IsSupportedExt(ext string) bool {
	_, ok := supportedExtSet[strings.ToLower(ext)]
	return ok
}
