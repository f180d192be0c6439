// Package diff computes line-level edit scripts between the original and
// transformed text of a file, used only for preview highlighting.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a single line in an edit script.
type Kind int

const (
	Equal Kind = iota
	Delete
	Insert
)

// Op is one line of an edit script.
type Op struct {
	Kind Kind
	Line string
}

// Lines aligns two line sequences and returns a minimal edit script.
// A replaced region appears as its deletions followed by its insertions.
func Lines(before, after []string) []Op {
	m := difflib.NewMatcher(before, after)

	var ops []Op
	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			for _, line := range before[oc.I1:oc.I2] {
				ops = append(ops, Op{Kind: Equal, Line: line})
			}
		case 'd':
			for _, line := range before[oc.I1:oc.I2] {
				ops = append(ops, Op{Kind: Delete, Line: line})
			}
		case 'i':
			for _, line := range after[oc.J1:oc.J2] {
				ops = append(ops, Op{Kind: Insert, Line: line})
			}
		case 'r':
			for _, line := range before[oc.I1:oc.I2] {
				ops = append(ops, Op{Kind: Delete, Line: line})
			}
			for _, line := range after[oc.J1:oc.J2] {
				ops = append(ops, Op{Kind: Insert, Line: line})
			}
		}
	}
	return ops
}

// SplitLines breaks text into lines with terminators removed, for feeding
// to Lines. Empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Marks returns the changed line indexes per pane: deletions indexed in
// the before pane, insertions in the after pane.
func Marks(ops []Op) (before, after map[int]bool) {
	before = make(map[int]bool)
	after = make(map[int]bool)

	bi, ai := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case Equal:
			bi++
			ai++
		case Delete:
			before[bi] = true
			bi++
		case Insert:
			after[ai] = true
			ai++
		}
	}
	return before, after
}
