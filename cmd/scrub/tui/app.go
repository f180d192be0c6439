package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/scrub/pkg/scrub/batch"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// pollInterval is the queue-drain tick. The coordinator pushes events at
// its own pace; the TUI only ever polls.
const pollInterval = 100 * time.Millisecond

// AppState represents the current state of the application.
type AppState int

const (
	StateProcessing AppState = iota
	StateBrowse
	StateConfirmSave
	StateConfirmUndo
)

// Options configures the TUI application.
type Options struct {
	Target      string
	Batch       types.BatchOptions
	Coordinator *batch.Coordinator
}

// Model is the main Bubble Tea model for the scrub TUI.
type Model struct {
	state       AppState
	procModel   ProcessModel
	browseModel BrowseModel
	options     Options

	// Batch state
	running bool
	entries []listEntry
	alerts  []types.AlertEvent

	// Confirmation dialog state
	confirmFocused int // 0 = cancel, 1 = confirm

	// Window dimensions
	width  int
	height int
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	return Model{
		state:     StateProcessing,
		procModel: NewProcessModel(opts.Target),
		options:   opts,
		running:   true,
		width:     80,
		height:    24,
	}
}

// pollTickMsg triggers a queue drain.
type pollTickMsg struct{}

// pollQueue schedules the next drain tick.
func (m Model) pollQueue() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// startBatch launches the coordinator on a worker goroutine. All feedback
// arrives through the event queue; the returned message only marks the
// goroutine handoff.
func (m Model) startBatch() tea.Cmd {
	coord := m.options.Coordinator
	target := m.options.Target
	opts := m.options.Batch
	return func() tea.Msg {
		go coord.RunBatch(target, opts)
		return nil
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.procModel.Init(),
		m.startBatch(),
		m.pollQueue(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.procModel.width = msg.Width
		m.procModel.height = msg.Height
		m.browseModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		done := m.applyEvents(m.options.Coordinator.Queue().Drain())
		if done {
			m.enterBrowse()
			return m, nil
		}
		return m, m.pollQueue()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.procModel, cmd = m.procModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyEvents folds drained queue events into the model. Returns true
// when the batch finished.
func (m *Model) applyEvents(events []types.Event) bool {
	finished := false
	for _, ev := range events {
		switch e := ev.(type) {
		case types.StatusEvent:
			m.procModel.status = e.Text
		case types.BoundsEvent:
			m.procModel.total = e.Total
		case types.StepEvent:
			m.procModel.completed += e.Delta
			if e.File != "" {
				m.procModel.currentFile = e.File
			}
		case types.ListAddEvent:
			m.entries = append(m.entries, listEntry{path: e.Path, display: e.Display})
			m.procModel.changed = len(m.entries)
		case types.AlertEvent:
			m.alerts = append(m.alerts, e)
		case types.DoneEvent:
			finished = true
		}
	}
	return finished
}

// enterBrowse transitions to the review screen once the batch is done,
// with the first changed file selected for preview.
func (m *Model) enterBrowse() {
	m.running = false
	m.state = StateBrowse
	m.browseModel = NewBrowseModel(m.entries, m.options.Coordinator.Store(), m.width, m.height)
	if len(m.alerts) > 0 {
		last := m.alerts[len(m.alerts)-1]
		m.browseModel.SetAlert(fmt.Sprintf("%s: %s", last.Title, last.Message), last.Severity)
	}
}

// restartBatch resets for a fresh run over the same target.
func (m *Model) restartBatch() tea.Cmd {
	m.state = StateProcessing
	m.procModel = NewProcessModel(m.options.Target)
	m.procModel.width = m.width
	m.procModel.height = m.height
	m.entries = nil
	m.alerts = nil
	m.running = true
	m.options.Coordinator.Store().Reset()
	return tea.Batch(m.procModel.Init(), m.startBatch(), m.pollQueue())
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case StateProcessing:
		if key == "q" || key == "esc" {
			// The batch has no cancellation path; quitting abandons the
			// in-flight run with nothing written to disk.
			return m, tea.Quit
		}

	case StateBrowse:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "s":
			if m.options.Coordinator.Store().Len() > 0 {
				m.state = StateConfirmSave
				m.confirmFocused = 0
			}
		case "u":
			if m.options.Coordinator.Store().CanUndo() {
				m.state = StateConfirmUndo
				m.confirmFocused = 0
			} else {
				m.browseModel.SetStatus("Nothing to undo.")
			}
		case "r":
			if !m.running {
				return m, m.restartBatch()
			}
		default:
			m.browseModel.HandleKey(key)
		}

	case StateConfirmSave:
		return m.handleConfirmKey(key, m.doSave)

	case StateConfirmUndo:
		return m.handleConfirmKey(key, m.doUndo)
	}

	return m, nil
}

// handleConfirmKey drives the two-button dialog shared by save and undo.
func (m Model) handleConfirmKey(key string, confirm func() Model) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc", "n":
		m.state = StateBrowse
	case "left", "h":
		m.confirmFocused = 0
	case "right", "l":
		m.confirmFocused = 1
	case "tab":
		m.confirmFocused = (m.confirmFocused + 1) % 2
	case "enter":
		if m.confirmFocused == 1 {
			return confirm(), nil
		}
		m.state = StateBrowse
	case "y":
		return confirm(), nil
	}
	return m, nil
}

// doSave writes every cached final to disk.
func (m Model) doSave() Model {
	saved, errs := m.options.Coordinator.Store().SaveAll()
	m.state = StateBrowse
	if len(errs) > 0 {
		m.browseModel.SetStatus(fmt.Sprintf("Saved %d file(s), %d failed.", saved, len(errs)))
	} else {
		m.browseModel.SetStatus(fmt.Sprintf("Saved %d file(s).", saved))
	}
	return m
}

// doUndo restores the latest batch's originals in memory.
func (m Model) doUndo() Model {
	count, ok := m.options.Coordinator.Store().UndoSession()
	m.state = StateBrowse
	if !ok {
		m.browseModel.SetStatus("Nothing to undo.")
		return m
	}
	m.browseModel.SetStatus(fmt.Sprintf("Reverted %d file(s) in memory. Save to write them back.", count))
	m.browseModel.InvalidatePreview()
	return m
}

// View renders the current state.
func (m Model) View() string {
	switch m.state {
	case StateProcessing:
		return m.procModel.View()
	case StateBrowse:
		return m.browseModel.View()
	case StateConfirmSave:
		return m.renderConfirmDialog(
			"Confirm Save",
			fmt.Sprintf("Write %d file(s) to disk?", m.options.Coordinator.Store().Len()),
			"Save")
	case StateConfirmUndo:
		return m.renderConfirmDialog(
			"Confirm Undo",
			"Revert this batch's changes in memory?",
			"Undo")
	}
	return ""
}

// renderConfirmDialog renders a modal two-button dialog over the browse view.
func (m Model) renderConfirmDialog(title, text, action string) string {
	bg := m.browseModel.View()

	var content strings.Builder
	content.WriteString(dialogTitleStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(dialogTextStyle.Render(text))
	content.WriteString("\n\n")

	cancelBtn := inactiveButtonStyle.Render("Cancel")
	actionBtn := inactiveButtonStyle.Render(action)
	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Render("Cancel")
	} else {
		actionBtn = activeButtonStyle.Render(action)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", actionBtn)
	content.WriteString(center(buttons, 46))

	dialog := dialogBoxStyle.Render(content.String())
	return m.overlayDialog(bg, dialog)
}

// overlayDialog centers a dialog over a background view.
func (m Model) overlayDialog(bg, dialog string) string {
	dialogLines := strings.Split(dialog, "\n")
	bgLines := strings.Split(bg, "\n")

	dialogHeight := len(dialogLines)
	startRow := (m.height - dialogHeight) / 2
	if startRow < 0 {
		startRow = 0
	}

	dialogWidth := lipgloss.Width(dialog)
	startCol := (m.width - dialogWidth) / 2
	if startCol < 0 {
		startCol = 0
	}

	rows := len(bgLines)
	if startRow+dialogHeight > rows {
		rows = startRow + dialogHeight
	}

	result := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		if i < startRow || i >= startRow+dialogHeight {
			if i < len(bgLines) {
				result = append(result, bgLines[i])
			} else {
				result = append(result, "")
			}
			continue
		}

		dialogLine := dialogLines[i-startRow]
		result = append(result, strings.Repeat(" ", startCol)+dialogLine)
	}

	return strings.Join(result, "\n")
}

// Run starts the TUI application.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
