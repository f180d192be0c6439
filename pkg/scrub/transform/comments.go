package transform

import (
	"regexp"
	"strings"
)

// family identifies a comment-syntax group. Dispatch is by extension;
// extensions outside the table pass through the stripping step unchanged.
type family int

const (
	familyNone family = iota
	familyHash
	familyCStyle
	familyMarkup
	familyPHP
)

var familyByExt = map[string]family{
	".py": familyHash,

	".c": familyCStyle, ".h": familyCStyle,
	".cpp": familyCStyle, ".hpp": familyCStyle,
	".java": familyCStyle, ".cs": familyCStyle,
	".js": familyCStyle, ".jsx": familyCStyle,
	".ts": familyCStyle, ".tsx": familyCStyle,
	".css": familyCStyle, ".scss": familyCStyle, ".less": familyCStyle,

	".html": familyMarkup, ".xml": familyMarkup,

	".php": familyPHP,
}

// The line-comment patterns guard with a captured preceding character
// instead of lookbehind: "//" must not follow ":" (URL schemes) and a
// Python "#" must not follow a quote. Block comments are replaced by the
// newlines they spanned so line numbering is preserved.
var (
	reHashFullLine = regexp.MustCompile(`(?m)^[ \t]*#[^\n]*`)
	reHashInline   = regexp.MustCompile(`(?m)([^'"\n])[ \t]+#[^\n]*`)
	reSlashLine    = regexp.MustCompile(`(?m)(^|[^:])//[^\n]*`)
	rePoundLine    = regexp.MustCompile(`(?m)#[^\n]*`)
	reBlock        = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reMarkupBlock  = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// StripComments removes comments from text according to the family the
// extension belongs to. Line comments are removed to end of line leaving
// the newline in place. The removal is pattern-based and may misfire on
// comment-like content inside string literals.
func StripComments(text, ext string) string {
	switch familyByExt[ext] {
	case familyHash:
		text = reHashFullLine.ReplaceAllString(text, "")
		text = reHashInline.ReplaceAllString(text, "$1")
	case familyCStyle:
		text = reBlock.ReplaceAllStringFunc(text, blockNewlines)
		text = reSlashLine.ReplaceAllString(text, "$1")
	case familyMarkup:
		text = reMarkupBlock.ReplaceAllStringFunc(text, blockNewlines)
	case familyPHP:
		text = reBlock.ReplaceAllStringFunc(text, blockNewlines)
		text = reSlashLine.ReplaceAllString(text, "$1")
		text = rePoundLine.ReplaceAllString(text, "")
	}
	return text
}

// blockNewlines collapses a block comment to the newlines it contained.
func blockNewlines(match string) string {
	return strings.Repeat("\n", strings.Count(match, "\n"))
}
