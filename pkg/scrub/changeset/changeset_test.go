package changeset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

func TestRecordBatchSkipsUnchanged(t *testing.T) {
	s := New()
	s.RecordBatch([]types.FileResult{
		{Path: "/x", Original: "a", Final: "b"},
		{Path: "/y", Original: "same", Final: "same"},
	})

	assert.Equal(t, 1, s.Len())
	_, _, ok := s.Content("/y")
	assert.False(t, ok)

	original, final, ok := s.Content("/x")
	require.True(t, ok)
	assert.Equal(t, "a", original)
	assert.Equal(t, "b", final)
}

func TestRecordBatchReplacesOriginalsKeepsFinals(t *testing.T) {
	s := New()
	s.RecordBatch([]types.FileResult{{Path: "/x", Original: "x0", Final: "x1"}})
	s.RecordBatch([]types.FileResult{{Path: "/y", Original: "y0", Final: "y1"}})

	// /x is no longer undoable but its final survives for saving.
	_, final, ok := s.Content("/x")
	require.True(t, ok)
	assert.Equal(t, "x1", final)

	original, _, _ := s.Content("/x")
	assert.Empty(t, original)

	assert.Equal(t, []string{"/x", "/y"}, s.FinalPaths())
}

func TestUndoSession(t *testing.T) {
	s := New()
	s.RecordBatch([]types.FileResult{
		{Path: "/x", Original: "x0", Final: "x1"},
	})
	// A previous run's final for /y, outside the current undo set.
	s.finals["/y"] = "y1"

	count, ok := s.UndoSession()
	require.True(t, ok)
	assert.Equal(t, 1, count)

	_, final, _ := s.Content("/x")
	assert.Equal(t, "x0", final, "undo must restore the original")

	_, final, _ = s.Content("/y")
	assert.Equal(t, "y1", final, "untouched entries keep their value")

	assert.False(t, s.CanUndo())
	count, ok = s.UndoSession()
	assert.False(t, ok, "second undo has nothing to do")
	assert.Zero(t, count)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out.py")

	s := New()
	s.RecordBatch([]types.FileResult{
		{Path: target, Original: "a\n", Final: "b\r\nc\r\n"},
	})

	saved, errs := s.SaveAll()
	require.Empty(t, errs)
	assert.Equal(t, 1, saved)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "b\r\nc\r\n", string(data), "final text written verbatim")
}

func TestSaveMissingEntry(t *testing.T) {
	s := New()
	saved, errs := s.Save([]string{"/nowhere"})

	assert.Zero(t, saved)
	require.Len(t, errs, 1)
	assert.Equal(t, "/nowhere", errs[0].Path)
}

func TestSavePartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")

	s := New()
	s.RecordBatch([]types.FileResult{
		{Path: good, Original: "a", Final: "b"},
	})

	saved, errs := s.Save([]string{good, "/nowhere"})
	assert.Equal(t, 1, saved)
	assert.Len(t, errs, 1)
}

func TestReset(t *testing.T) {
	s := New()
	s.RecordBatch([]types.FileResult{{Path: "/x", Original: "a", Final: "b"}})

	s.Reset()

	assert.Zero(t, s.Len())
	assert.False(t, s.CanUndo())
	assert.Empty(t, s.FinalPaths())
}
