package folding

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hit struct {
	kind    matchKind
	pattern int
	start   int
}

func collect(m *matcher, line string) []hit {
	var out []hit
	for h := range m.matches(line) {
		out = append(out, hit{kind: h.kind, pattern: h.pattern.Index, start: h.start})
	}
	return out
}

func TestMatcher_GroupsOfUserPatterns(t *testing.T) {
	// Capture groups inside user regexes must not shift the branch mapping.
	m := newMatcher(Compile(
		Spec{BeginRegex: "(be)(gin)", EndRegex: "(e)nd"},
		braces,
	))
	require.NotNil(t, m.combined)

	got := collect(m, "begin { } end")

	assert.Equal(t, []hit{
		{kindBegin, 0, 0},
		{kindBegin, 1, 6},
		{kindEnd, 1, 8},
		{kindEnd, 0, 10},
	}, got)
}

func TestMatcher_SkipLineBranch(t *testing.T) {
	m := newMatcher(Compile(Spec{Begin: "{", End: "}", SkipLine: "#"}))

	got := collect(m, "{ # }")

	assert.Equal(t, []hit{
		{kindBegin, 0, 0},
		{kindSkipLine, 0, 2},
		{kindEnd, 0, 4},
	}, got)
}

func TestMatcher_NonOverlapping(t *testing.T) {
	m := newMatcher(Compile(Spec{Begin: "aa", End: "b"}))

	got := collect(m, "aaab")

	assert.Equal(t, []hit{{kindBegin, 0, 0}, {kindEnd, 0, 3}}, got)
}

func TestMatcher_CombinedAgreesWithEach(t *testing.T) {
	m := newMatcher(Compile(
		comments,
		braces,
		Spec{BeginRegex: `(?i)\bBEGIN\b`, EndRegex: `(?i)\bEND\b`, SkipLineRegex: `^\s*--`},
		Spec{Begin: "{", End: "-->"},
	))
	require.NotNil(t, m.combined)

	lines := []string{
		"",
		"<!-- { begin",
		"end } -->",
		"  -- { begin",
		"x{y}z<!---->",
		"BeGiN{END}",
	}
	for _, line := range lines {
		for cursor := 0; cursor <= len(line); cursor++ {
			want, wantOK := m.nextEach(line, cursor)
			got, gotOK := m.next(line, cursor)
			require.Equal(t, wantOK, gotOK, "line %q cursor %d", line, cursor)
			assert.Equal(t, want, got, "line %q cursor %d", line, cursor)
		}
	}
}

func TestMatcher_NextEachMiss(t *testing.T) {
	m := newMatcher(Compile(braces))

	got, ok := m.nextEach("a }x", 3)
	assert.False(t, ok)
	assert.Equal(t, match{}, got)

	got, ok = m.next("a }x", 3)
	assert.False(t, ok)
	assert.Equal(t, match{}, got)
}

func TestMatcher_Empty(t *testing.T) {
	m := newMatcher(nil)

	assert.Nil(t, m.combined)
	assert.Empty(t, slices.Collect(m.matches("{ }")))
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "begin", kindBegin.String())
	assert.Equal(t, "end", kindEnd.String())
	assert.Equal(t, "skipLine", kindSkipLine.String())
	assert.Equal(t, "unknown", matchKind(9).String())
}
