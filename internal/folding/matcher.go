package folding

import (
	"iter"
	"regexp"
	"strings"
)

type matchKind int

const (
	kindBegin matchKind = iota
	kindEnd
	kindSkipLine
)

func (k matchKind) String() string {
	switch k {
	case kindBegin:
		return "begin"
	case kindEnd:
		return "end"
	case kindSkipLine:
		return "skipLine"
	default:
		return "unknown"
	}
}

// alternative is one branch of the combined expression
type alternative struct {
	re      *regexp.Regexp
	group   int // capture group of the branch in the combined expression
	kind    matchKind
	pattern *Pattern
}

// match is a tagged hit on a line. start and end are byte offsets into the
// full line.
type match struct {
	kind    matchKind
	pattern *Pattern
	start   int
	end     int
}

// matcher tests every begin, end and skip-line expression in one pass.
// Branches are ordered by pattern index, then begin, end, skip-line, so
// leftmost-first alternation gives the lowest index the win when two
// patterns match at the same position.
type matcher struct {
	combined *regexp.Regexp // nil if the joined expression failed to compile
	alts     []alternative
}

func newMatcher(patterns []*Pattern) *matcher {
	m := &matcher{}
	var src strings.Builder
	group := 0

	add := func(re *regexp.Regexp, kind matchKind, p *Pattern) {
		if re == nil {
			return
		}
		if src.Len() > 0 {
			src.WriteByte('|')
		}
		src.WriteString("(")
		src.WriteString(re.String())
		src.WriteString(")")
		group++
		m.alts = append(m.alts, alternative{re: re, group: group, kind: kind, pattern: p})
		group += re.NumSubexp()
	}

	for _, p := range patterns {
		add(p.Begin, kindBegin, p)
		add(p.End, kindEnd, p)
		add(p.SkipLine, kindSkipLine, p)
	}

	if len(m.alts) > 0 {
		if re, err := regexp.Compile(src.String()); err == nil && re.NumSubexp() == group {
			m.combined = re
		}
	}
	return m
}

// next returns the first match in line at or after cursor
func (m *matcher) next(line string, cursor int) (match, bool) {
	if cursor > len(line) || len(m.alts) == 0 {
		return match{}, false
	}
	if m.combined == nil {
		return m.nextEach(line, cursor)
	}

	loc := m.combined.FindStringSubmatchIndex(line[cursor:])
	if loc == nil {
		return match{}, false
	}
	for _, alt := range m.alts {
		if loc[2*alt.group] >= 0 {
			return match{
				kind:    alt.kind,
				pattern: alt.pattern,
				start:   cursor + loc[0],
				end:     cursor + loc[1],
			}, true
		}
	}
	return match{}, false
}

// nextEach is the branch-by-branch equivalent of the combined search
func (m *matcher) nextEach(line string, cursor int) (match, bool) {
	var best match
	found := false
	for _, alt := range m.alts {
		loc := alt.re.FindStringIndex(line[cursor:])
		if loc == nil {
			continue
		}
		if !found || cursor+loc[0] < best.start {
			best = match{kind: alt.kind, pattern: alt.pattern, start: cursor + loc[0], end: cursor + loc[1]}
			found = true
		}
	}
	return best, found
}

// matches yields every match on line in left-to-right order. Scanning
// resumes past each match, by at least one byte so empty matches terminate.
func (m *matcher) matches(line string) iter.Seq[match] {
	return func(yield func(match) bool) {
		cursor := 0
		for {
			hit, ok := m.next(line, cursor)
			if !ok || !yield(hit) {
				return
			}
			cursor = hit.start + max(hit.end-hit.start, 1)
		}
	}
}
