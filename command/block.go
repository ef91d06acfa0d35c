package command

import "github.com/iw2rmb/tincture/doc"

// selectedTextblocks returns the textblocks touched by the selection.
func selectedTextblocks(s State) []*doc.Node {
	r := doc.ClampRange(s.Doc, s.Selection.Range())
	tbs := doc.Textblocks(s.Doc)
	if len(tbs) == 0 {
		return nil
	}
	return tbs[r.Start.Block : r.End.Block+1]
}

func allTextblocks(s State, pred func(tb *doc.Node) bool) bool {
	tbs := selectedTextblocks(s)
	for _, tb := range tbs {
		if !pred(tb) {
			return false
		}
	}
	return len(tbs) > 0
}

// ToggleHeading turns the selected textblocks into headings of level, or
// back into paragraphs when they already are.
func ToggleHeading(level int) Command {
	isHeading := func(s State) bool {
		return allTextblocks(s, func(tb *doc.Node) bool {
			return tb.Kind == doc.KindHeading && tb.Level == level
		})
	}
	return basic{
		name:       "toggleHeading",
		applicable: func(State) bool { return level >= 1 && level <= doc.MaxHeadingLevel },
		active:     isHeading,
		run: func(s State) (State, error) {
			kind := doc.KindHeading
			if isHeading(s) {
				kind = doc.KindParagraph
			}
			root, changed := doc.SetTextblock(s.Doc, s.Selection.Range(), kind, level)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

// SetParagraph turns the selected textblocks into paragraphs.
func SetParagraph() Command {
	return basic{
		name: "setParagraph",
		active: func(s State) bool {
			return allTextblocks(s, func(tb *doc.Node) bool { return tb.Kind == doc.KindParagraph })
		},
		run: func(s State) (State, error) {
			root, changed := doc.SetTextblock(s.Doc, s.Selection.Range(), doc.KindParagraph, 0)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

func ToggleBulletList() Command { return toggleWrap("toggleBulletList", doc.KindBulletList) }
func ToggleOrderedList() Command { return toggleWrap("toggleOrderedList", doc.KindOrderedList) }
func ToggleBlockquote() Command { return toggleWrap("toggleBlockquote", doc.KindBlockquote) }

func toggleWrap(name string, wrapper doc.Kind) Command {
	return basic{
		name: name,
		active: func(s State) bool {
			return doc.RangeWrappedIn(s.Doc, s.Selection.Range(), wrapper)
		},
		run: func(s State) (State, error) {
			root, changed := doc.ToggleWrap(s.Doc, s.Selection.Range(), wrapper)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

// SetTextAlign aligns the selected textblocks.
func SetTextAlign(align doc.TextAlign) Command {
	return basic{
		name: "setTextAlign",
		applicable: func(State) bool {
			_, ok := doc.ParseTextAlign(string(align))
			return ok
		},
		active: func(s State) bool {
			return allTextblocks(s, func(tb *doc.Node) bool { return tb.Align == align })
		},
		run: func(s State) (State, error) {
			root, changed := doc.SetTextAlign(s.Doc, s.Selection.Range(), align)
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, s.Selection), nil
		},
	}
}

// InsertHorizontalRule replaces the selection with a horizontal rule.
func InsertHorizontalRule() Command {
	return basic{
		name: "setHorizontalRule",
		run: func(s State) (State, error) {
			root, at := deleteSelection(s)
			root, next, err := doc.InsertRule(root, at)
			if err != nil {
				return s, err
			}
			return s.change(root, Cursor(next)), nil
		},
	}
}
