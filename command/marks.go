package command

import "github.com/iw2rmb/tincture/doc"

func ToggleBold() Command { return toggleMark("toggleBold", doc.MarkBold) }
func ToggleItalic() Command { return toggleMark("toggleItalic", doc.MarkItalic) }
func ToggleUnderline() Command { return toggleMark("toggleUnderline", doc.MarkUnderline) }
func ToggleStrike() Command { return toggleMark("toggleStrike", doc.MarkStrike) }

func SetColor(color string) Command { return setMark("setColor", doc.NewMark(doc.MarkColor, color)) }
func UnsetColor() Command { return unsetMark("unsetColor", doc.MarkColor) }
func SetGradient(gradient string) Command { return setMark("setGradient", doc.NewMark(doc.MarkGradient, gradient)) }
func UnsetGradient() Command { return unsetMark("unsetGradient", doc.MarkGradient) }
func SetFontFamily(family string) Command { return setMark("setFontFamily", doc.NewMark(doc.MarkFontFamily, family)) }
func UnsetFontFamily() Command { return unsetMark("unsetFontFamily", doc.MarkFontFamily) }
func SetFontSize(size string) Command { return setMark("setFontSize", doc.NewMark(doc.MarkFontSize, size)) }
func UnsetFontSize() Command { return unsetMark("unsetFontSize", doc.MarkFontSize) }
func SetLink(href string) Command { return setMark("setLink", doc.NewMark(doc.MarkLink, href)) }
func UnsetLink() Command { return unsetMark("unsetLink", doc.MarkLink) }

// markActive reports whether every unit of the selection carries t. At a
// cursor the stored or inherited marks decide.
func markActive(s State, t doc.MarkType) bool {
	if s.Selection.IsCollapsed() {
		return s.ActiveMarks().Has(t)
	}
	return doc.RangeHasMark(s.Doc, s.Selection.Range(), t)
}

// toggleMark adds t to the selection unless all of it already carries t,
// in which case t is removed. At a cursor only the stored marks change.
func toggleMark(name string, t doc.MarkType) Command {
	return basic{
		name:   name,
		active: func(s State) bool { return markActive(s, t) },
		run: func(s State) (State, error) {
			if s.Selection.IsCollapsed() {
				marks := s.ActiveMarks()
				if marks.Has(t) {
					return s.withStoredMarks(marks.Without(t)), nil
				}
				return s.withStoredMarks(marks.With(doc.NewMark(t, ""))), nil
			}
			r := s.Selection.Range()
			var (
				root    *doc.Node
				changed bool
			)
			if doc.RangeHasMark(s.Doc, r, t) {
				root, changed = doc.UnsetMark(s.Doc, r, t)
			} else {
				root, changed = doc.SetMark(s.Doc, r, doc.NewMark(t, ""))
			}
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

func setMark(name string, m doc.Mark) Command {
	return basic{
		name:       name,
		applicable: func(State) bool { return m.Value != "" },
		active: func(s State) bool {
			if s.Selection.IsCollapsed() {
				cur, ok := s.ActiveMarks().Get(m.Type)
				return ok && cur == m
			}
			leaves := doc.LeavesIn(s.Doc, s.Selection.Range())
			for _, l := range leaves {
				if cur, ok := l.Marks.Get(m.Type); !ok || cur != m {
					return false
				}
			}
			return len(leaves) > 0
		},
		run: func(s State) (State, error) {
			if s.Selection.IsCollapsed() {
				marks := s.ActiveMarks()
				if cur, ok := marks.Get(m.Type); ok && cur == m {
					return s, ErrNoOp
				}
				return s.withStoredMarks(marks.With(m)), nil
			}
			root, changed := doc.SetMark(s.Doc, s.Selection.Range(), m)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

func unsetMark(name string, t doc.MarkType) Command {
	return basic{
		name: name,
		run: func(s State) (State, error) {
			if s.Selection.IsCollapsed() {
				marks := s.ActiveMarks()
				if !marks.Has(t) {
					return s, ErrNoOp
				}
				return s.withStoredMarks(marks.Without(t)), nil
			}
			root, changed := doc.UnsetMark(s.Doc, s.Selection.Range(), t)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}
