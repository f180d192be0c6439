package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/scrub/pkg/scrub/batch"
	"github.com/jamesainslie/scrub/pkg/scrub/changeset"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

func newTestModel() Model {
	coord := batch.NewCoordinator(batch.NewQueue(), changeset.New())
	return NewModel(Options{
		Target:      "/test/project",
		Batch:       types.BatchOptions{EOL: types.EOLLF},
		Coordinator: coord,
	})
}

func TestNewModel(t *testing.T) {
	m := newTestModel()

	if m.state != StateProcessing {
		t.Errorf("expected initial state StateProcessing, got %v", m.state)
	}
	if !m.running {
		t.Error("expected running to be true initially")
	}
	if m.procModel.target != "/test/project" {
		t.Errorf("expected target '/test/project', got %s", m.procModel.target)
	}
}

func TestApplyEventsProgress(t *testing.T) {
	m := newTestModel()

	done := m.applyEvents([]types.Event{
		types.StatusEvent{Text: "Scanning /test/project..."},
		types.BoundsEvent{Total: 3},
		types.StepEvent{Delta: 0, File: "a.py"},
		types.StepEvent{Delta: 1},
		types.ListAddEvent{Path: "/test/project/a.py", Display: "a.py"},
	})

	if done {
		t.Error("batch should not be finished yet")
	}
	if m.procModel.total != 3 {
		t.Errorf("expected total 3, got %d", m.procModel.total)
	}
	if m.procModel.completed != 1 {
		t.Errorf("expected completed 1, got %d", m.procModel.completed)
	}
	if m.procModel.currentFile != "a.py" {
		t.Errorf("expected currentFile 'a.py', got %s", m.procModel.currentFile)
	}
	if len(m.entries) != 1 {
		t.Errorf("expected 1 list entry, got %d", len(m.entries))
	}
}

func TestApplyEventsDone(t *testing.T) {
	m := newTestModel()

	done := m.applyEvents([]types.Event{types.DoneEvent{Modified: 2}})
	if !done {
		t.Error("done event should finish the batch")
	}
}

func TestEnterBrowseSelectsFirstEntry(t *testing.T) {
	m := newTestModel()
	m.entries = []listEntry{
		{path: "/test/project/a.py", display: "a.py"},
		{path: "/test/project/b.py", display: "b.py"},
	}

	m.enterBrowse()

	if m.state != StateBrowse {
		t.Errorf("expected StateBrowse, got %v", m.state)
	}
	selected, ok := m.browseModel.Selected()
	if !ok || selected.display != "a.py" {
		t.Errorf("expected first entry selected, got %+v ok=%v", selected, ok)
	}
}

func TestBrowseNavigation(t *testing.T) {
	store := changeset.New()
	entries := []listEntry{
		{path: "/a", display: "a"},
		{path: "/b", display: "b"},
	}
	m := NewBrowseModel(entries, store, 80, 24)

	m.HandleKey("down")
	if sel, _ := m.Selected(); sel.display != "b" {
		t.Errorf("expected cursor on 'b', got %s", sel.display)
	}

	m.HandleKey("down")
	if sel, _ := m.Selected(); sel.display != "b" {
		t.Error("cursor should not move past the last entry")
	}

	m.HandleKey("up")
	if sel, _ := m.Selected(); sel.display != "a" {
		t.Errorf("expected cursor back on 'a', got %s", sel.display)
	}
}

func TestBrowsePreviewMarksChanges(t *testing.T) {
	store := changeset.New()
	store.RecordBatch([]types.FileResult{{
		Path:     "/x.py",
		Original: "# gone\nkeep()\n",
		Final:    "keep()\n",
	}})

	m := NewBrowseModel([]listEntry{{path: "/x.py", display: "x.py"}}, store, 80, 24)
	m.refreshPreview()

	if len(m.beforeLines) != 2 || len(m.afterLines) != 1 {
		t.Fatalf("preview lines = %d/%d, want 2/1", len(m.beforeLines), len(m.afterLines))
	}
	if !m.beforeMarks[0] {
		t.Error("removed comment line should be marked in the before pane")
	}
	if len(m.afterMarks) != 0 {
		t.Errorf("after pane should have no marks, got %v", m.afterMarks)
	}
}

func TestConfirmDialogKeys(t *testing.T) {
	m := newTestModel()
	m.entries = []listEntry{{path: "/a", display: "a"}}
	m.enterBrowse()
	m.options.Coordinator.Store().RecordBatch([]types.FileResult{{
		Path: "/a", Original: "x", Final: "y",
	}})

	// s opens the save dialog
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(Model)
	if m.state != StateConfirmSave {
		t.Fatalf("expected StateConfirmSave, got %v", m.state)
	}

	// esc cancels back to browse
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.state != StateBrowse {
		t.Errorf("expected StateBrowse after esc, got %v", m.state)
	}
}

func TestEnterBrowseStylesAlertBySeverity(t *testing.T) {
	tests := []struct {
		name     string
		severity types.Severity
		want     lipgloss.Style
	}{
		{name: "error", severity: types.SeverityError, want: errorTextStyle},
		{name: "warning", severity: types.SeverityWarning, want: warningTextStyle},
		{name: "info", severity: types.SeverityInfo, want: mutedTextStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			m.alerts = []types.AlertEvent{{Severity: tt.severity, Title: "Alert", Message: "detail"}}
			m.enterBrowse()

			if !strings.Contains(m.browseModel.statusMessage, "detail") {
				t.Errorf("status = %q, want the alert message", m.browseModel.statusMessage)
			}
			if m.browseModel.statusStyle.GetForeground() != tt.want.GetForeground() {
				t.Errorf("status foreground = %v, want %v",
					m.browseModel.statusStyle.GetForeground(), tt.want.GetForeground())
			}
		})
	}
}

func TestUndoWithNothingToUndo(t *testing.T) {
	m := newTestModel()
	m.entries = nil
	m.enterBrowse()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	m = next.(Model)
	if m.state != StateBrowse {
		t.Errorf("undo with empty store must stay in browse, got %v", m.state)
	}
	if !strings.Contains(m.browseModel.statusMessage, "Nothing to undo") {
		t.Errorf("status = %q, want nothing-to-undo notice", m.browseModel.statusMessage)
	}
}

func TestProcessModelView(t *testing.T) {
	m := NewProcessModel("/test/project")
	m.total = 10
	m.completed = 5
	m.changed = 2

	view := m.View()
	if !strings.Contains(view, "5 / 10") {
		t.Errorf("view missing progress counter: %s", view)
	}
	if !strings.Contains(view, "50%") {
		t.Errorf("view missing percentage: %s", view)
	}
}

func TestTruncateHelpers(t *testing.T) {
	if got := truncatePath("/very/long/path/to/file.py", 10); len(got) != 10 {
		t.Errorf("truncatePath length = %d, want 10", len(got))
	}
	if got := truncateLine("short", 10); got != "short" {
		t.Errorf("truncateLine(short) = %q", got)
	}
}
