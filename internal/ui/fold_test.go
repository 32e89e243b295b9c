package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gubarz/regionfold/internal/folding"
)

func TestFoldState_Toggle(t *testing.T) {
	// 0 {
	// 1   {
	// 2     x
	// 3   }
	// 4 }
	fs := newFoldState([]folding.Range{{StartLine: 1, EndLine: 2}, {StartLine: 0, EndLine: 3}})

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantOK    bool
		visible   []int
	}{
		{name: "fold inner at start", line: 1, wantStart: 1, wantOK: true, visible: []int{0, 1, 3, 4}},
		{name: "unfold inner", line: 1, wantStart: 1, wantOK: true, visible: []int{0, 1, 2, 3, 4}},
		{name: "inside line folds innermost", line: 2, wantStart: 1, wantOK: true, visible: []int{0, 1, 3, 4}},
		{name: "fold outer", line: 0, wantStart: 0, wantOK: true, visible: []int{0, 4}},
		{name: "unfold outer keeps inner folded", line: 0, wantStart: 0, wantOK: true, visible: []int{0, 1, 3, 4}},
		{name: "no region", line: 4, wantStart: 4, wantOK: false, visible: []int{0, 1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, ok := fs.toggle(tt.line)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.visible, fs.visibleLines(5))
		})
	}
}

func TestFoldState_SameStart(t *testing.T) {
	fs := newFoldState([]folding.Range{{StartLine: 0, EndLine: 1}, {StartLine: 0, EndLine: 3}})

	_, ok := fs.toggle(0)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 4}, fs.visibleLines(5))
	assert.Equal(t, 3, fs.hiddenCount(0))

	has, folded := fs.marker(0)
	assert.True(t, has)
	assert.True(t, folded)
}

func TestFoldState_AllAndReload(t *testing.T) {
	fs := newFoldState([]folding.Range{{StartLine: 0, EndLine: 1}, {StartLine: 3, EndLine: 4}})

	fs.foldAll()
	assert.Equal(t, []int{0, 2, 3, 5}, fs.visibleLines(6))

	fs.unfoldAll()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, fs.visibleLines(6))

	fs.toggle(3)
	fs.setRanges([]folding.Range{{StartLine: 3, EndLine: 5}, {StartLine: 0, EndLine: 1}})
	assert.Equal(t, []int{0, 1, 2, 3}, fs.visibleLines(6), "fold state survives by start line")
	assert.Equal(t, 2, fs.len())

	has, folded := fs.marker(2)
	assert.False(t, has)
	assert.False(t, folded)
	assert.False(t, fs.hidden(3))
	assert.True(t, fs.hidden(5))
}
