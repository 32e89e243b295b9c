package folding

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMissingPair is returned for a spec that supplies neither a begin/end
// nor a beginRegex/endRegex pair
var ErrMissingPair = errors.New("spec needs begin/end or beginRegex/endRegex")

// Spec is one user-supplied folding rule
type Spec struct {
	Name string `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`

	Begin      string `mapstructure:"begin" json:"begin,omitempty" yaml:"begin,omitempty"`
	End        string `mapstructure:"end" json:"end,omitempty" yaml:"end,omitempty"`
	BeginRegex string `mapstructure:"beginRegex" json:"beginRegex,omitempty" yaml:"beginRegex,omitempty"`
	EndRegex   string `mapstructure:"endRegex" json:"endRegex,omitempty" yaml:"endRegex,omitempty"`

	SkipLine       string `mapstructure:"skipLine" json:"skipLine,omitempty" yaml:"skipLine,omitempty"`
	SkipLineRegex  string `mapstructure:"skipLineRegex" json:"skipLineRegex,omitempty" yaml:"skipLineRegex,omitempty"`
	SkipBegin      string `mapstructure:"skipBegin" json:"skipBegin,omitempty" yaml:"skipBegin,omitempty"`
	SkipBeginRegex string `mapstructure:"skipBeginRegex" json:"skipBeginRegex,omitempty" yaml:"skipBeginRegex,omitempty"`
	SkipEnd        string `mapstructure:"skipEnd" json:"skipEnd,omitempty" yaml:"skipEnd,omitempty"`
	SkipEndRegex   string `mapstructure:"skipEndRegex" json:"skipEndRegex,omitempty" yaml:"skipEndRegex,omitempty"`

	OffsetTop    int `mapstructure:"offsetTop" json:"offsetTop,omitempty" yaml:"offsetTop,omitempty"`
	OffsetBottom int `mapstructure:"offsetBottom" json:"offsetBottom,omitempty" yaml:"offsetBottom,omitempty"`
}

// Pattern is a compiled Spec. Its identity is its position in the
// compiled list.
type Pattern struct {
	Index int
	Name  string

	Begin     *regexp.Regexp
	End       *regexp.Regexp
	SkipLine  *regexp.Regexp // nil when the rule has no skip-line marker
	SkipBegin *regexp.Regexp
	SkipEnd   *regexp.Regexp

	OffsetTop    int
	OffsetBottom int
}

// SpecError describes why a single spec was dropped
type SpecError struct {
	Index int
	Name  string
	Field string
	Err   error
}

func (e *SpecError) Error() string {
	label := fmt.Sprintf("spec %d", e.Index)
	if e.Name != "" {
		label = fmt.Sprintf("spec %d (%s)", e.Index, e.Name)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", label, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", label, e.Field, e.Err)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// Compile compiles specs in order, silently dropping the ones that fail
func Compile(specs ...Spec) []*Pattern {
	patterns, _ := CompileAll(specs...)
	return patterns
}

// CompileAll compiles specs in order and also returns an error for every
// spec that was dropped. Pattern.Index is the position in the returned
// slice, not in specs.
func CompileAll(specs ...Spec) ([]*Pattern, []error) {
	patterns := make([]*Pattern, 0, len(specs))
	var errs []error

	for i, spec := range specs {
		p, err := CompileSpec(i, spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.Index = len(patterns)
		patterns = append(patterns, p)
	}

	return patterns, errs
}

// CompileSpec compiles a single spec. index only labels errors.
func CompileSpec(index int, spec Spec) (*Pattern, error) {
	fail := func(field string, err error) (*Pattern, error) {
		return nil, &SpecError{Index: index, Name: spec.Name, Field: field, Err: err}
	}

	var beginSrc, endSrc string
	var beginField, endField string
	switch {
	case spec.BeginRegex != "" && spec.EndRegex != "":
		beginSrc, endSrc = spec.BeginRegex, spec.EndRegex
		beginField, endField = "beginRegex", "endRegex"
	case spec.Begin != "" && spec.End != "":
		beginSrc, endSrc = regexp.QuoteMeta(spec.Begin), regexp.QuoteMeta(spec.End)
		beginField, endField = "begin", "end"
	default:
		return fail("", ErrMissingPair)
	}

	begin, err := regexp.Compile(beginSrc)
	if err != nil {
		return fail(beginField, err)
	}
	end, err := regexp.Compile(endSrc)
	if err != nil {
		return fail(endField, err)
	}

	p := &Pattern{
		Index:        index,
		Name:         spec.Name,
		Begin:        begin,
		End:          end,
		OffsetTop:    spec.OffsetTop,
		OffsetBottom: spec.OffsetBottom,
	}

	markers := []struct {
		dst          **regexp.Regexp
		literal, raw string
		field        string
	}{
		{&p.SkipLine, spec.SkipLine, spec.SkipLineRegex, "skipLine"},
		{&p.SkipBegin, spec.SkipBegin, spec.SkipBeginRegex, "skipBegin"},
		{&p.SkipEnd, spec.SkipEnd, spec.SkipEndRegex, "skipEnd"},
	}
	for _, m := range markers {
		re, err := compileMarker(m.literal, m.raw)
		if err != nil {
			return fail(m.field+"Regex", err)
		}
		*m.dst = re
	}

	return p, nil
}

// compileMarker prefers the literal form, then the raw regex form. Both
// empty means no marker.
func compileMarker(literal, raw string) (*regexp.Regexp, error) {
	switch {
	case literal != "":
		return regexp.MustCompile(regexp.QuoteMeta(literal)), nil
	case raw != "":
		return regexp.Compile(raw)
	default:
		return nil, nil
	}
}
