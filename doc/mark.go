package doc

import (
	"slices"
	"strings"
)

// MarkType names a style that applies to a run of inline content. The
// declaration order is the nesting rank used by Serialize: lower types wrap
// higher ones.
type MarkType uint8

const (
	MarkLink MarkType = iota
	MarkBold
	MarkItalic
	MarkUnderline
	MarkStrike
	MarkColor
	MarkFontFamily
	MarkFontSize
	MarkGradient
)

var markNames = [...]string{
	MarkLink:       "link",
	MarkBold:       "bold",
	MarkItalic:     "italic",
	MarkUnderline:  "underline",
	MarkStrike:     "strike",
	MarkColor:      "color",
	MarkFontFamily: "fontFamily",
	MarkFontSize:   "fontSize",
	MarkGradient:   "gradient",
}

func (t MarkType) String() string {
	if int(t) >= len(markNames) {
		return "unknown"
	}
	return markNames[t]
}

// ParseMarkType returns the mark type with the given name.
func ParseMarkType(name string) (MarkType, bool) {
	for i, n := range markNames {
		if n == name {
			return MarkType(i), true
		}
	}
	return 0, false
}

// IsBoolean reports whether the mark carries no value.
func (t MarkType) IsBoolean() bool {
	switch t {
	case MarkBold, MarkItalic, MarkUnderline, MarkStrike:
		return true
	default:
		return false
	}
}

// isStyle reports whether the mark renders through the shared styled span.
func (t MarkType) isStyle() bool {
	return t >= MarkColor && t <= MarkGradient
}

// Mark is a named, optionally parameterized style.
type Mark struct {
	Type  MarkType
	Value string
}

// NewMark builds a mark, cleaning values that end up inside a style
// attribute so they cannot terminate or inject declarations.
func NewMark(t MarkType, value string) Mark {
	switch {
	case t.IsBoolean():
		value = ""
	case t.isStyle():
		value = canonicalStyleValue(value)
	default:
		value = strings.TrimSpace(value)
	}
	return Mark{Type: t, Value: value}
}

func (m Mark) String() string {
	if m.Value == "" {
		return m.Type.String()
	}
	return m.Type.String() + "(" + m.Value + ")"
}

// canonicalStyleValue is cleanStyleValue in the form parseStyle reads back
// from a serialized style attribute: comments dropped and whitespace runs
// collapsed.
func canonicalStyleValue(v string) string {
	decls := parseStyle("v:" + cleanStyleValue(v))
	if len(decls) == 0 {
		return ""
	}
	return decls[0].Value
}

func cleanStyleValue(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '\n', '\r', '\t':
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

// MarkSet is a set of marks ordered by type with at most one mark per type.
// The zero value is the empty set. MarkSet values are never modified in
// place; With and Without return new sets.
type MarkSet []Mark

// With returns the set with m added, replacing a mark of the same type.
func (s MarkSet) With(m Mark) MarkSet {
	out := make(MarkSet, 0, len(s)+1)
	added := false
	for _, cur := range s {
		switch {
		case cur.Type == m.Type:
			out = append(out, m)
			added = true
		case !added && cur.Type > m.Type:
			out = append(out, m, cur)
			added = true
		default:
			out = append(out, cur)
		}
	}
	if !added {
		out = append(out, m)
	}
	return out
}

// Without returns the set with any mark of type t removed.
func (s MarkSet) Without(t MarkType) MarkSet {
	if !s.Has(t) {
		return s
	}
	out := make(MarkSet, 0, len(s)-1)
	for _, cur := range s {
		if cur.Type != t {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Get returns the mark of type t, if present.
func (s MarkSet) Get(t MarkType) (Mark, bool) {
	for _, cur := range s {
		if cur.Type == t {
			return cur, true
		}
	}
	return Mark{}, false
}

// Has reports whether the set holds a mark of type t.
func (s MarkSet) Has(t MarkType) bool {
	_, ok := s.Get(t)
	return ok
}

// Equal reports whether both sets hold the same marks.
func (s MarkSet) Equal(o MarkSet) bool {
	return slices.Equal(s, o)
}

func (s MarkSet) String() string {
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
