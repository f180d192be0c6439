package ignore

import "testing"

var defaultPatterns = []string{
	"*.log", "*.tmp", "*.bak", "*.swp", "*.pyc",
	"__pycache__/", "node_modules/", "vendor/",
	".git/", ".svn/", ".hg/",
	"dist/", "build/", "target/",
	"*.min.js", "*.min.css",
}

func TestParseSplitsDirAndFilePatterns(t *testing.T) {
	s := Parse(defaultPatterns)

	if !s.MatchDir("node_modules") {
		t.Error("node_modules/ should produce a directory token")
	}
	if !s.MatchDir(".git") {
		t.Error(".git/ should produce a directory token")
	}
	if s.MatchDir("src") {
		t.Error("src should not be ignored")
	}
	if s.MatchFile("node_modules") {
		t.Error("directory tokens must not match as filename globs")
	}
}

func TestMatchFile(t *testing.T) {
	s := Parse(defaultPatterns)

	tests := []struct {
		basename string
		want     bool
	}{
		{"debug.log", true},
		{"a.min.js", true},
		{"styles.min.css", true},
		{"keep.min.js.bak", true}, // caught by *.bak
		{"app.js", false},
		{"main.py", false},
		{"cache.pyc", true},
		{"Debug.LOG", false}, // case-sensitive
	}

	for _, tt := range tests {
		if got := s.MatchFile(tt.basename); got != tt.want {
			t.Errorf("MatchFile(%q) = %v, want %v", tt.basename, got, tt.want)
		}
	}
}

func TestMatchFileGlobClasses(t *testing.T) {
	s := Parse([]string{"file?.txt", "[ab].go"})

	if !s.MatchFile("file1.txt") {
		t.Error("? should match a single character")
	}
	if s.MatchFile("file12.txt") {
		t.Error("? should not match two characters")
	}
	if !s.MatchFile("a.go") || !s.MatchFile("b.go") {
		t.Error("[ab] should match either listed character")
	}
	if s.MatchFile("c.go") {
		t.Error("[ab] should not match c")
	}
}

func TestParseSkipsBlankAndInvalid(t *testing.T) {
	s := Parse([]string{"", "   ", "[unterminated", "*.ok"})

	if len(s.Patterns()) != 2 {
		t.Errorf("Patterns() = %v, want the invalid glob kept in raw but blank dropped", s.Patterns())
	}
	if !s.MatchFile("a.ok") {
		t.Error("valid glob should still compile")
	}
	if s.MatchFile("[unterminated") {
		t.Error("invalid glob should be skipped, not matched literally")
	}
}

func TestBackslashDirToken(t *testing.T) {
	s := Parse([]string{`cache\`})
	if !s.MatchDir("cache") {
		t.Error(`cache\ should be treated as a directory token`)
	}
}
