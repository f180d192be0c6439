package transform

import (
	"regexp"
	"strings"
)

var reBlankRuns = regexp.MustCompile(`\n{2,}`)

// CollapseBlank normalizes terminators to LF, trims the whole text, and
// collapses every run of consecutive newlines to at most one blank line.
// Non-empty output keeps a single trailing newline.
func CollapseBlank(text string) string {
	text = toLF(text)
	text = reBlankRuns.ReplaceAllString(strings.TrimSpace(text), "\n\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}
