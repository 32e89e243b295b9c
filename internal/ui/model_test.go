package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/regionfold/internal/folding"
)

func sampleSnapshot() Snapshot {
	lines := []string{"func a() {", "  if x {", "    y()", "  }", "}", "tail"}
	return Snapshot{
		Path:   "a.go",
		Lines:  lines,
		Ranges: folding.New(folding.Spec{Begin: "{", End: "}"}).Scan(folding.Lines(lines)),
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_Navigation(t *testing.T) {
	m := newModel(sampleSnapshot(), nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runes("j"))
	assert.Equal(t, 2, m.currentLine())

	m, _ = update(t, m, runes("G"))
	assert.Equal(t, 5, m.currentLine())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 4, m.currentLine())

	m, _ = update(t, m, runes("g"))
	assert.Equal(t, 0, m.currentLine())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.currentLine(), "cursor clamps at the top")
}

func TestModel_ToggleAndFoldAll(t *testing.T) {
	m := newModel(sampleSnapshot(), nil, nil)
	require.Equal(t, []folding.Range{{StartLine: 1, EndLine: 2}, {StartLine: 0, EndLine: 3}}, m.snap.Ranges)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int{0, 4, 5}, m.visible)

	m, _ = update(t, m, runes("j"))
	assert.Equal(t, 4, m.currentLine())

	m, _ = update(t, m, runes("R"))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, m.visible)
	assert.Equal(t, 4, m.currentLine())

	m, _ = update(t, m, runes("k"))
	m, _ = update(t, m, runes("k"))
	assert.Equal(t, 2, m.currentLine())

	m, _ = update(t, m, runes("M"))
	assert.Equal(t, []int{0, 4, 5}, m.visible)
	assert.Equal(t, 0, m.currentLine(), "cursor moves to the fold that hides it")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []int{0, 1, 3, 4, 5}, m.visible, "inner fold stays closed")
}

func TestModel_Quit(t *testing.T) {
	m := newModel(sampleSnapshot(), nil, nil)

	m, cmd := update(t, m, runes("q"))

	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_Reload(t *testing.T) {
	snap := sampleSnapshot()
	reloaded := Snapshot{
		Path:   snap.Path,
		Lines:  append([]string{"// header"}, snap.Lines...),
		Ranges: []folding.Range{{StartLine: 2, EndLine: 3}, {StartLine: 1, EndLine: 4}},
	}
	calls := 0
	load := func() (Snapshot, error) {
		calls++
		return reloaded, nil
	}
	changes := make(chan struct{})

	m := newModel(snap, load, changes)
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, changedMsg{})
	require.NotNil(t, cmd)

	msg := m.reload()()
	assert.Equal(t, 1, calls)

	m, _ = update(t, m, msg)
	assert.Equal(t, reloaded.Lines, m.snap.Lines)
	assert.Equal(t, 2, m.folds.len())
	assert.NoError(t, m.err)

	m, _ = update(t, m, reloadedMsg{err: errors.New("gone")})
	assert.EqualError(t, m.err, "gone")
	assert.Equal(t, reloaded.Lines, m.snap.Lines, "failed reload keeps the last snapshot")
	assert.Contains(t, m.View(), "gone")
}

func TestModel_View(t *testing.T) {
	m := newModel(sampleSnapshot(), nil, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()

	assert.Contains(t, view, "a.go")
	assert.Contains(t, view, "6 lines, 2 folds")
	assert.Contains(t, view, "▸")
	assert.Contains(t, view, "… 3 lines")
	assert.NotContains(t, view, "y()")
	assert.Contains(t, view, "tail")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "", truncate("abcd", 0))
	assert.Equal(t, "héé…", truncate("hééllo", 4))
	assert.True(t, strings.HasSuffix(truncate(strings.Repeat("x", 100), 10), "…"))
}
