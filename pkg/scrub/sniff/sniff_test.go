package sniff

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestIsLikelyBinary(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "plain text", data: []byte("package main\n\nfunc main() {}\n"), want: false},
		{name: "empty file", data: nil, want: false},
		{name: "nul byte", data: []byte("hello\x00world"), want: true},
		{name: "mostly control bytes", data: bytes.Repeat([]byte{0x01, 0x02, 0x03, 'a'}, 64), want: true},
		{name: "tabs and newlines", data: []byte("a\tb\r\nc\fd\be\n"), want: false},
		{name: "utf8 text under threshold", data: []byte(strings.Repeat("hello world ", 20) + "caf\xc3\xa9"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "sample", tt.data)
			if got := IsLikelyBinary(path); got != tt.want {
				t.Errorf("IsLikelyBinary = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLikelyBinaryOnlyChecksPrefix(t *testing.T) {
	// Binary garbage after the first 1KiB must not matter.
	data := append(bytes.Repeat([]byte("text line\n"), 110), bytes.Repeat([]byte{0x00, 0x01}, 512)...)
	path := writeTemp(t, "tail-binary", data)
	if IsLikelyBinary(path) {
		t.Error("binary content beyond the 1KiB sample should be ignored")
	}
}

func TestIsLikelyBinaryMissingFile(t *testing.T) {
	if IsLikelyBinary(filepath.Join(t.TempDir(), "does-not-exist")) {
		t.Error("read failure should fail open as text")
	}
}
