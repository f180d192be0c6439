package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/scrub/pkg/scrub/ignore"
)

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func TestDiscoverDirectory(t *testing.T) {
	root := t.TempDir()

	wantA := writeFile(t, root, "main.py", []byte("print('hi')\n"))
	wantB := writeFile(t, root, "src/app.js", []byte("console.log(1);\n"))
	writeFile(t, root, "notes.txt", []byte("unsupported extension\n"))
	writeFile(t, root, "node_modules/dep/index.js", []byte("ignored dir\n"))
	writeFile(t, root, "debug.log", []byte("ignored basename\n"))
	writeFile(t, root, "img.json", []byte("bin\x00ary"))

	spec := ignore.Parse([]string{"node_modules/", "*.log"})
	res, err := Discover(root, spec)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{wantA, wantB}
	if len(res.Candidates) != len(want) {
		t.Fatalf("Candidates = %v, want %v", res.Candidates, want)
	}
	for i := range want {
		// Candidates are sorted; src/ comes after main.py alphabetically
		// only by full path, so compare as sets via index lookup.
		found := false
		for _, c := range res.Candidates {
			if c == want[i] {
				found = true
			}
		}
		if !found {
			t.Errorf("missing candidate %s in %v", want[i], res.Candidates)
		}
	}

	// main.py, src/app.js, notes.txt, debug.log, img.json are checked;
	// node_modules is pruned before its files are seen.
	if res.TotalChecked != 5 {
		t.Errorf("TotalChecked = %d, want 5", res.TotalChecked)
	}
}

func TestDiscoverCandidatesSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.py", []byte("x\n"))
	writeFile(t, root, "a.py", []byte("x\n"))
	writeFile(t, root, "c.py", []byte("x\n"))

	res, err := Discover(root, ignore.Parse(nil))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := 1; i < len(res.Candidates); i++ {
		if res.Candidates[i-1] > res.Candidates[i] {
			t.Fatalf("candidates not sorted: %v", res.Candidates)
		}
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "only.py", []byte("print()\n"))

	res, err := Discover(path, ignore.Parse(nil))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0] != path {
		t.Errorf("Candidates = %v, want [%s]", res.Candidates, path)
	}
	if res.TotalChecked != 1 {
		t.Errorf("TotalChecked = %d, want 1", res.TotalChecked)
	}
}

func TestDiscoverSingleFileIneligible(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "readme.txt", []byte("hello\n"))

	res, err := Discover(path, ignore.Parse(nil))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Errorf("Candidates = %v, want none", res.Candidates)
	}
	if res.TotalChecked != 1 {
		t.Errorf("TotalChecked = %d, want 1", res.TotalChecked)
	}
}

func TestDiscoverMissingTarget(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), ignore.Parse(nil)); err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestDiscoverCaseInsensitiveExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Main.PY", []byte("print()\n"))

	res, err := Discover(root, ignore.Parse(nil))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Errorf("uppercase extension should be eligible, got %v", res.Candidates)
	}
}
