// Package sniff provides a cheap heuristic for telling binary files from
// text. It only gates an allow-list already restricted to known text
// extensions, so occasional misclassification is acceptable.
package sniff

import (
	"io"
	"os"
)

// sampleSize is the number of leading bytes examined.
const sampleSize = 1024

// nontextThreshold is the fraction of non-text bytes above which a file
// is considered binary.
const nontextThreshold = 0.30

// IsLikelyBinary reports whether the file at path looks binary. It reads
// at most the first 1KiB: a NUL byte means binary, otherwise the fraction
// of bytes outside printable ASCII (plus common whitespace controls)
// decides. Any read failure fails open and reports text.
func IsLikelyBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	chunk := buf[:n]
	if len(chunk) == 0 {
		return false
	}

	nontext := 0
	for _, b := range chunk {
		if b == 0 {
			return true
		}
		if !isTextByte(b) {
			nontext++
		}
	}

	return float64(nontext)/float64(len(chunk)) > nontextThreshold
}

// isTextByte reports whether b is printable ASCII or one of the
// whitespace controls commonly found in text files.
func isTextByte(b byte) bool {
	if b >= 0x20 && b <= 0x7E {
		return true
	}
	switch b {
	case '\n', '\r', '\t', '\f', '\b':
		return true
	}
	return false
}
