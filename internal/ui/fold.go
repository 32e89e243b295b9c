package ui

import (
	"sort"

	"github.com/gubarz/regionfold/internal/folding"
)

// foldRegion is a folding range with its collapsed state
type foldRegion struct {
	folding.Range
	folded bool
}

// foldState tracks which ranges are collapsed. Hidden lines are the ones
// after the start of a folded range, up to and including its end.
type foldState struct {
	regions []foldRegion
}

func newFoldState(ranges []folding.Range) *foldState {
	fs := &foldState{}
	fs.setRanges(ranges)
	return fs
}

// setRanges replaces the regions, keeping the folded state of regions that
// still start on the same line
func (fs *foldState) setRanges(ranges []folding.Range) {
	wasFolded := make(map[int]bool)
	for _, r := range fs.regions {
		if r.folded {
			wasFolded[r.StartLine] = true
		}
	}

	regions := make([]foldRegion, len(ranges))
	for i, r := range ranges {
		regions[i] = foldRegion{Range: r, folded: wasFolded[r.StartLine]}
	}
	// Outer regions first so lookups by start line see the widest region.
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].StartLine != regions[j].StartLine {
			return regions[i].StartLine < regions[j].StartLine
		}
		return regions[i].EndLine > regions[j].EndLine
	})
	fs.regions = regions
}

// toggle flips every region starting at line. If none starts there, the
// innermost open region containing line is folded. It returns the start
// line of the affected region.
func (fs *foldState) toggle(line int) (int, bool) {
	found := false
	fold := true
	for _, r := range fs.regions {
		if r.StartLine == line {
			if !found {
				fold = !r.folded
			}
			found = true
		}
	}
	if found {
		for i := range fs.regions {
			if fs.regions[i].StartLine == line {
				fs.regions[i].folded = fold
			}
		}
		return line, true
	}

	best := -1
	for i, r := range fs.regions {
		if r.folded || line < r.StartLine || line > r.EndLine {
			continue
		}
		if best < 0 || r.EndLine-r.StartLine < fs.regions[best].EndLine-fs.regions[best].StartLine {
			best = i
		}
	}
	if best < 0 {
		return line, false
	}
	fs.regions[best].folded = true
	return fs.regions[best].StartLine, true
}

func (fs *foldState) foldAll() {
	for i := range fs.regions {
		fs.regions[i].folded = true
	}
}

func (fs *foldState) unfoldAll() {
	for i := range fs.regions {
		fs.regions[i].folded = false
	}
}

// hidden reports whether line is inside a folded region
func (fs *foldState) hidden(line int) bool {
	for _, r := range fs.regions {
		if r.folded && line > r.StartLine && line <= r.EndLine {
			return true
		}
	}
	return false
}

// marker reports whether a region starts at line and if it is folded
func (fs *foldState) marker(line int) (hasRegion, folded bool) {
	for _, r := range fs.regions {
		if r.StartLine == line {
			return true, r.folded
		}
	}
	return false, false
}

// hiddenCount returns how many lines the folded regions starting at line hide
func (fs *foldState) hiddenCount(line int) int {
	n := 0
	for _, r := range fs.regions {
		if r.StartLine == line && r.folded {
			n = max(n, r.EndLine-r.StartLine)
		}
	}
	return n
}

// visibleLines returns the line indices left after folding
func (fs *foldState) visibleLines(total int) []int {
	visible := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if !fs.hidden(i) {
			visible = append(visible, i)
		}
	}
	return visible
}

func (fs *foldState) len() int {
	return len(fs.regions)
}
