package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/regionfold/internal/folding"
)

// ============================================================================
// Snapshot
// ============================================================================

// Snapshot is one load of a document together with its folding ranges
type Snapshot struct {
	Path   string
	Lines  []string
	Ranges []folding.Range
}

// Loader produces a fresh snapshot, used when the watched file changes
type Loader func() (Snapshot, error)

// changedMsg is sent when the watched file settles after a change
type changedMsg struct{}

// reloadedMsg carries the result of a Loader call
type reloadedMsg struct {
	snap Snapshot
	err  error
}

// waitForChange blocks on the change channel
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// ============================================================================
// Model
// ============================================================================

// model is the Bubble Tea model of the fold viewer
type model struct {
	width    int
	height   int
	quitting bool

	snap    Snapshot
	folds   *foldState
	visible []int // line indices not hidden by a fold
	cursor  int   // index into visible
	offset  int   // viewport scroll offset, index into visible

	keys keyMap
	help help.Model

	load    Loader
	changes <-chan struct{}
	err     error
}

func newModel(snap Snapshot, load Loader, changes <-chan struct{}) model {
	m := model{
		snap:    snap,
		folds:   newFoldState(snap.Ranges),
		keys:    defaultKeyMap(),
		help:    help.New(),
		load:    load,
		changes: changes,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adjustOffset()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case changedMsg:
		if m.load == nil {
			return m, waitForChange(m.changes)
		}
		return m, tea.Batch(m.reload(), waitForChange(m.changes))
	case reloadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.apply(msg.snap)
		}
	}
	return m, nil
}

// handleKey processes keyboard input
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyHeight())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.adjustOffset()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.visible)-1)
		m.adjustOffset()
	case key.Matches(msg, m.keys.Toggle):
		if start, ok := m.folds.toggle(m.currentLine()); ok {
			m.refresh()
			m.moveToLine(start)
		}
	case key.Matches(msg, m.keys.FoldAll):
		line := m.currentLine()
		m.folds.foldAll()
		m.refresh()
		m.moveToLine(line)
	case key.Matches(msg, m.keys.UnfoldAll):
		line := m.currentLine()
		m.folds.unfoldAll()
		m.refresh()
		m.moveToLine(line)
	}
	return nil
}

func (m model) reload() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		snap, err := load()
		return reloadedMsg{snap: snap, err: err}
	}
}

// apply swaps in a new snapshot, keeping fold state and cursor line
func (m *model) apply(snap Snapshot) {
	line := m.currentLine()
	m.snap = snap
	m.folds.setRanges(snap.Ranges)
	m.refresh()
	m.moveToLine(line)
}

func (m *model) refresh() {
	m.visible = m.folds.visibleLines(len(m.snap.Lines))
	m.cursor = clamp(m.cursor, 0, max(0, len(m.visible)-1))
	m.adjustOffset()
}

// currentLine returns the document line under the cursor
func (m *model) currentLine() int {
	if len(m.visible) == 0 {
		return 0
	}
	return m.visible[m.cursor]
}

// moveToLine puts the cursor on line, or on the nearest visible line above it
func (m *model) moveToLine(line int) {
	m.cursor = 0
	for i, l := range m.visible {
		if l > line {
			break
		}
		m.cursor = i
	}
	m.adjustOffset()
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *model) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.visible)-1))
	m.adjustOffset()
}

// bodyHeight is the number of document rows that fit on screen
func (m *model) bodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-2, 1)
}

// adjustOffset ensures cursor is visible within viewport
func (m *model) adjustOffset() {
	viewHeight := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.visible)-viewHeight))
}

// ============================================================================
// View
// ============================================================================

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.titleView())
	b.WriteByte('\n')

	numWidth := len(strconv.Itoa(len(m.snap.Lines)))
	end := min(m.offset+m.bodyHeight(), len(m.visible))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.lineView(m.visible[i], numWidth, i == m.cursor))
		b.WriteByte('\n')
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) titleView() string {
	name := m.snap.Path
	if name == "" {
		name = "[no name]"
	}
	title := styles.Title.Render(name) +
		styles.Status.Render(fmt.Sprintf("  %d lines, %d folds", len(m.snap.Lines), m.folds.len()))
	if m.err != nil {
		title += "  " + styles.Error.Render(m.err.Error())
	}
	return title
}

func (m model) lineView(line, numWidth int, current bool) string {
	pointer := " "
	if current {
		pointer = styles.Cursor.Render("▶")
	}

	marker := " "
	has, folded := m.folds.marker(line)
	switch {
	case has && folded:
		marker = styles.FoldClosed.Render("▸")
	case has:
		marker = styles.FoldOpen.Render("▾")
	}

	num := styles.LineNumber.Render(fmt.Sprintf("%*d", numWidth, line+1))
	text := m.snap.Lines[line]
	if m.width > 0 {
		text = truncate(text, m.width-numWidth-5)
	}
	if current {
		text = styles.Current.Render(text)
	} else {
		text = styles.Text.Render(text)
	}

	row := pointer + num + " " + marker + " " + text
	if folded {
		row += styles.Ellipsis.Render(fmt.Sprintf(" … %d lines", m.folds.hiddenCount(line)))
	}
	return row
}

// ============================================================================
// Helpers
// ============================================================================

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
