package transform

import (
	"strings"

	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// toLF rewrites every terminator convention to a bare LF.
func toLF(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// NormalizeEOL converts all line terminators to the target form. It runs
// last in the pipeline because earlier steps may emit their own
// convention.
func NormalizeEOL(text string, eol types.LineEnding) string {
	text = toLF(text)
	if eol == types.EOLCRLF {
		return strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}
