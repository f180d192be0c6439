// Package transform implements the per-file rewrite pipeline: decode,
// comment stripping, blank-line collapsing, structured re-formatting and
// line-ending normalization, in that fixed order.
package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// Options selects which pipeline steps run. EOL normalization always runs.
type Options struct {
	StripComments bool
	CollapseBlank bool
	EOL           types.LineEnding
}

// Process reads the file at path and runs it through the pipeline.
// The returned Original is the text exactly as decoded; Final carries the
// resolved target terminators. Only an unreadable file is an error; every
// other step degrades to keeping the prior text.
func Process(path string, opts Options) (types.FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	original := decode(data)
	ext := strings.ToLower(filepath.Ext(path))

	text := original
	if opts.StripComments {
		text = StripComments(text, ext)
	}
	if opts.CollapseBlank {
		text = CollapseBlank(text)
	}
	text = Reformat(text, ext)
	text = NormalizeEOL(text, opts.EOL)

	return types.FileResult{Path: path, Original: original, Final: text}, nil
}
