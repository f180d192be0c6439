package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ProcessModel renders the batch-in-progress phase.
type ProcessModel struct {
	spinner     spinner.Model
	status      string
	currentFile string
	total       int
	completed   int
	changed     int
	startTime   time.Time
	width       int
	height      int
	target      string
}

// NewProcessModel creates the processing-phase model.
func NewProcessModel(target string) ProcessModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ProcessModel{
		spinner:   s,
		status:    "Starting...",
		startTime: time.Now(),
		width:     80,
		height:    24,
		target:    target,
	}
}

// Init initializes the processing model.
func (m ProcessModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks; batch events are applied by the parent.
func (m ProcessModel) Update(msg tea.Msg) (ProcessModel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}
	return m, nil
}

// View renders the processing screen.
func (m ProcessModel) View() string {
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Scrub"))
	b.WriteString(mutedTextStyle.Render("  " + truncatePath(m.target, contentWidth-10)))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	line := fmt.Sprintf("  %s %s", m.spinner.View(), m.status)
	if m.currentFile != "" {
		line = fmt.Sprintf("  %s Cleaning: %s", m.spinner.View(), truncatePath(m.currentFile, contentWidth-16))
	}
	b.WriteString(line)
	b.WriteString("\n\n")

	if m.total > 0 {
		pct := float64(m.completed) / float64(m.total)
		barWidth := contentWidth - 10
		filled := int(pct * float64(barWidth))
		empty := barWidth - filled

		bar := "  " + progressFillStyle.Render(strings.Repeat("█", filled)) +
			progressEmptyStyle.Render(strings.Repeat("░", empty))
		b.WriteString(bar)
		b.WriteString(fmt.Sprintf(" %d%%", int(pct*100)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderStats renders the progress counters box.
func (m ProcessModel) renderStats() string {
	elapsed := time.Since(m.startTime).Round(time.Second)

	stats := []string{
		statsLabelStyle.Render("Files ") + statsValueStyle.Render(fmt.Sprintf("%d / %d", m.completed, m.total)),
		statsLabelStyle.Render("Changed ") + statsValueStyle.Render(humanize.Comma(int64(m.changed))),
		statsLabelStyle.Render("Elapsed ") + statsValueStyle.Render(elapsed.String()),
	}

	return "  " + statsBoxStyle.Render(strings.Join(stats, "   "))
}
