package folding

// Range is an inclusive, 0-based line interval that can be folded
type Range struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// Document is a line-addressable text snapshot
type Document interface {
	LineCount() int
	LineAt(i int) string
}

// Lines adapts a slice of lines to Document
type Lines []string

func (l Lines) LineCount() int      { return len(l) }
func (l Lines) LineAt(i int) string { return l[i] }

// Scanner computes folding ranges for a fixed list of compiled patterns.
// A Scanner is immutable after construction and Scan may be called from
// several goroutines at once.
type Scanner struct {
	patterns []*Pattern
	matcher  *matcher
}

// New compiles specs, dropping invalid ones, and returns a Scanner for them
func New(specs ...Spec) *Scanner {
	return NewScanner(Compile(specs...))
}

// NewScanner returns a Scanner for already compiled patterns
func NewScanner(patterns []*Pattern) *Scanner {
	return &Scanner{
		patterns: patterns,
		matcher:  newMatcher(patterns),
	}
}

// Patterns returns the compiled patterns in identity order
func (s *Scanner) Patterns() []*Pattern {
	return s.patterns
}

// Scan returns the folding ranges of doc in the order they were closed.
// It never fails: unmatched ends, interleaved pairs and unterminated begins
// only reduce the number of ranges.
func (s *Scanner) Scan(doc Document) []Range {
	ranges := []Range{}
	if doc == nil || len(s.matcher.alts) == 0 {
		return ranges
	}

	sc := &scan{doc: doc, lineCount: doc.LineCount(), ranges: ranges}
	for i := 0; i < sc.lineCount; i++ {
		line := doc.LineAt(i)
		for hit := range s.matcher.matches(line) {
			if hit.kind == kindSkipLine {
				break
			}
			if hit.kind == kindBegin {
				sc.push(hit.pattern, i)
				continue
			}
			sc.close(hit.pattern, i, line)
		}
	}
	return sc.ranges
}

// ============================================================================
// Scan state
// ============================================================================

// openMarker is a begin that has not been closed yet
type openMarker struct {
	pattern *Pattern
	line    int
}

// scan holds the state of one Scan call. The stack top is the last element.
type scan struct {
	doc       Document
	lineCount int
	stack     []openMarker
	ranges    []Range
}

func (sc *scan) push(p *Pattern, line int) {
	sc.stack = append(sc.stack, openMarker{pattern: p, line: line})
}

// close resolves an end of pattern rr found on line b
func (sc *scan) close(rr *Pattern, b int, endLine string) {
	top := len(sc.stack) - 1
	if top < 0 {
		return
	}

	// Begin and end on one line never fold, whatever pattern opened it.
	if sc.stack[top].line == b {
		sc.stack = sc.stack[:top]
		return
	}

	if sc.stack[top].pattern != rr {
		found := sc.nearest(rr)
		if found < 0 {
			return
		}
		// Markers above the resync point are abandoned.
		top = found
	}

	open := sc.stack[top]
	sc.stack = sc.stack[:top]

	a := open.line
	if rr.SkipBegin != nil && rr.SkipBegin.MatchString(sc.doc.LineAt(a)) {
		return
	}
	if rr.SkipEnd != nil && rr.SkipEnd.MatchString(endLine) {
		return
	}
	sc.emit(a+open.pattern.OffsetTop, b-1+open.pattern.OffsetBottom)
}

// nearest returns the stack index of the innermost marker opened by p, or -1
func (sc *scan) nearest(p *Pattern) int {
	for i := len(sc.stack) - 1; i >= 0; i-- {
		if sc.stack[i].pattern == p {
			return i
		}
	}
	return -1
}

// emit clamps the range to the document and drops it if it is inverted
func (sc *scan) emit(start, end int) {
	start = max(start, 0)
	end = min(end, sc.lineCount-1)
	if start > end {
		return
	}
	sc.ranges = append(sc.ranges, Range{StartLine: start, EndLine: end})
}
