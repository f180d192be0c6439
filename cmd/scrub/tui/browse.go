package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/scrub/pkg/scrub/changeset"
	"github.com/jamesainslie/scrub/pkg/scrub/diff"
	"github.com/jamesainslie/scrub/pkg/scrub/types"
)

// listEntry is one changed file in the browse list.
type listEntry struct {
	path    string
	display string
}

// BrowseModel renders the changed-file list and the before/after preview.
type BrowseModel struct {
	entries []listEntry
	cursor  int
	scroll  int
	store   *changeset.Store
	width   int
	height  int

	// Cached preview for the file under the cursor.
	previewPath   string
	beforeLines   []string
	afterLines    []string
	beforeMarks   map[int]bool
	afterMarks    map[int]bool
	previewDirty  bool
	statusMessage string
	statusStyle   lipgloss.Style
}

// NewBrowseModel creates the browse model over a populated store.
func NewBrowseModel(entries []listEntry, store *changeset.Store, width, height int) BrowseModel {
	m := BrowseModel{
		entries:      entries,
		store:        store,
		width:        width,
		height:       height,
		previewDirty: true,
	}
	return m
}

// SetDimensions updates the layout size.
func (m *BrowseModel) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}

// SetStatus sets the transient status line under the list.
func (m *BrowseModel) SetStatus(msg string) {
	m.statusMessage = msg
	m.statusStyle = successTextStyle
}

// SetAlert sets the status line from a batch alert, colored by severity.
func (m *BrowseModel) SetAlert(msg string, severity types.Severity) {
	m.statusMessage = msg
	switch severity {
	case types.SeverityError:
		m.statusStyle = errorTextStyle
	case types.SeverityWarning:
		m.statusStyle = warningTextStyle
	default:
		m.statusStyle = mutedTextStyle
	}
}

// InvalidatePreview forces a rebuild, used after undo rewrites finals.
func (m *BrowseModel) InvalidatePreview() {
	m.previewDirty = true
}

// Selected returns the entry under the cursor.
func (m *BrowseModel) Selected() (listEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return listEntry{}, false
	}
	return m.entries[m.cursor], true
}

// HandleKey processes list navigation keys.
func (m *BrowseModel) HandleKey(key string) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.previewDirty = true
			m.scroll = 0
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.previewDirty = true
			m.scroll = 0
		}
	case "pgdown", "ctrl+d":
		m.scroll += m.previewHeight() / 2
	case "pgup", "ctrl+u":
		m.scroll -= m.previewHeight() / 2
		if m.scroll < 0 {
			m.scroll = 0
		}
	case "home", "g":
		m.scroll = 0
	}
}

// refreshPreview recomputes the diff for the selected entry.
func (m *BrowseModel) refreshPreview() {
	entry, ok := m.Selected()
	if !ok {
		m.beforeLines, m.afterLines = nil, nil
		m.beforeMarks, m.afterMarks = nil, nil
		m.previewDirty = false
		return
	}

	original, final, found := m.store.Content(entry.path)
	if !found {
		m.beforeLines, m.afterLines = nil, nil
		m.previewDirty = false
		return
	}

	m.previewPath = entry.path
	m.beforeLines = diff.SplitLines(original)
	m.afterLines = diff.SplitLines(final)
	ops := diff.Lines(m.beforeLines, m.afterLines)
	m.beforeMarks, m.afterMarks = diff.Marks(ops)
	m.previewDirty = false
}

// previewHeight is the number of content lines each pane shows.
func (m *BrowseModel) previewHeight() int {
	h := m.height - m.listHeight() - 9
	if h < 5 {
		h = 5
	}
	return h
}

// listHeight caps the file list portion of the screen.
func (m *BrowseModel) listHeight() int {
	h := len(m.entries)
	if h > 8 {
		h = 8
	}
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the browse screen.
func (m *BrowseModel) View() string {
	if m.previewDirty {
		m.refreshPreview()
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Scrub"))
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %d changed file(s)", len(m.entries))))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n")

	b.WriteString(m.renderList(contentWidth))
	b.WriteString("\n")

	if m.statusMessage != "" {
		b.WriteString("  " + m.statusStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}

	b.WriteString(m.renderPreview(contentWidth))
	b.WriteString("\n")

	hints := []string{
		keyStyle.Render("[↑/↓]") + " " + keyDescStyle.Render("Select"),
		keyStyle.Render("[s]") + " " + keyDescStyle.Render("Save all"),
		keyStyle.Render("[u]") + " " + keyDescStyle.Render("Undo"),
		keyStyle.Render("[r]") + " " + keyDescStyle.Render("Re-run"),
		keyStyle.Render("[q]") + " " + keyDescStyle.Render("Quit"),
	}
	b.WriteString(center(strings.Join(hints, "  "), contentWidth))

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderList renders the changed-file list with the cursor row highlighted.
func (m *BrowseModel) renderList(contentWidth int) string {
	if len(m.entries) == 0 {
		return "  " + mutedTextStyle.Render("No files changed.") + "\n"
	}

	visible := m.listHeight()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	var b strings.Builder
	for i := start; i < len(m.entries) && i < start+visible; i++ {
		name := truncatePath(m.entries[i].display, contentWidth-6)
		if i == m.cursor {
			b.WriteString("  " + cursorStyle.Render(">") + selectedItemStyle.Render(" "+name))
		} else {
			b.WriteString("    " + normalItemStyle.Render(name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderPreview renders the side-by-side before/after panes with changed
// lines highlighted from the diff marks.
func (m *BrowseModel) renderPreview(contentWidth int) string {
	if len(m.entries) == 0 {
		return ""
	}

	paneWidth := contentWidth/2 - 3
	if paneWidth < 20 {
		paneWidth = 20
	}
	height := m.previewHeight()

	before := m.renderPane("Before", m.beforeLines, m.beforeMarks, deletedLineStyle, paneWidth, height)
	after := m.renderPane("After", m.afterLines, m.afterMarks, insertedLineStyle, paneWidth, height)

	return lipgloss.JoinHorizontal(lipgloss.Top, before, " ", after)
}

// renderPane renders one preview pane.
func (m *BrowseModel) renderPane(title string, lines []string, marks map[int]bool, markStyle lipgloss.Style, width, height int) string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(title))
	b.WriteString("\n")

	scroll := m.scroll
	if scroll > len(lines) {
		scroll = len(lines)
	}

	shown := 0
	for i := scroll; i < len(lines) && shown < height; i++ {
		line := truncateLine(lines[i], width)
		if marks[i] {
			b.WriteString(markStyle.Render(line))
		} else {
			b.WriteString(contextLineStyle.Render(line))
		}
		b.WriteString("\n")
		shown++
	}
	if remaining := len(lines) - scroll - shown; remaining > 0 {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("… %d more lines", remaining)))
		b.WriteString("\n")
	}

	return paneBoxStyle.Width(width + 2).Render(b.String())
}
