package command

import "github.com/iw2rmb/tincture/doc"

// deleteSelection removes the selected content, if any, and returns the
// document together with the position where the selection collapsed.
func deleteSelection(s State) (*doc.Node, doc.Pos) {
	if s.Selection.IsCollapsed() {
		return s.Doc, doc.ClampPos(s.Doc, s.Selection.Head)
	}
	r := doc.ClampRange(s.Doc, s.Selection.Range())
	root, _ := doc.DeleteRange(s.Doc, r)
	return root, r.Start
}

// InsertText replaces the selection with text carrying the active marks.
func InsertText(text string) Command {
	return basic{
		name:       "insertText",
		applicable: func(State) bool { return text != "" },
		run: func(s State) (State, error) {
			marks := s.ActiveMarks()
			root, at := deleteSelection(s)
			root, next, err := doc.InsertText(root, at, text, marks)
			if err != nil {
				return s, err
			}
			if root == s.Doc {
				return s, ErrNoOp
			}
			return s.change(root, Cursor(next)), nil
		},
	}
}

// SplitBlock replaces the selection with a paragraph break.
func SplitBlock() Command {
	return basic{
		name: "splitBlock",
		run: func(s State) (State, error) {
			root, at := deleteSelection(s)
			root, next, err := doc.SplitBlock(root, at)
			if err != nil {
				return s, err
			}
			return s.change(root, Cursor(next)), nil
		},
	}
}

// InsertHardBreak replaces the selection with a line break inside the
// current textblock.
func InsertHardBreak() Command {
	return basic{
		name: "setHardBreak",
		run: func(s State) (State, error) {
			marks := s.ActiveMarks()
			root, at := deleteSelection(s)
			br := doc.HardBreak()
			br.Marks = marks
			root, err := doc.InsertNode(root, at, br)
			if err != nil {
				return s, err
			}
			return s.change(root, Cursor(doc.Pos{Block: at.Block, Offset: at.Offset + 1})), nil
		},
	}
}

// DeleteSelection removes the selected content.
func DeleteSelection() Command {
	return basic{
		name:       "deleteSelection",
		applicable: func(s State) bool { return !s.Selection.IsCollapsed() },
		run: func(s State) (State, error) {
			root, at := deleteSelection(s)
			if root == s.Doc {
				return s, ErrNoOp
			}
			return s.change(root, Cursor(at)), nil
		},
	}
}

// DeleteBackward deletes the selection, or the unit before the cursor. At
// the start of a textblock it joins the textblock with the previous one.
func DeleteBackward() Command {
	return basic{
		name: "deleteBackward",
		applicable: func(s State) bool {
			p := s.Selection.Head
			return !s.Selection.IsCollapsed() || p.Offset > 0 || p.Block > 0
		},
		run: func(s State) (State, error) {
			if !s.Selection.IsCollapsed() {
				return DeleteSelection().Execute(s)
			}
			p := doc.ClampPos(s.Doc, s.Selection.Head)
			from := doc.Pos{Block: p.Block, Offset: p.Offset - 1}
			if p.Offset == 0 {
				if p.Block == 0 {
					return s, ErrNotApplicable
				}
				prev := doc.TextblockAt(s.Doc, p.Block-1)
				from = doc.Pos{Block: p.Block - 1, Offset: prev.Size()}
			}
			root, changed := doc.DeleteRange(s.Doc, doc.Range{Start: from, End: p})
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, Cursor(from)), nil
		},
	}
}

// DeleteForward deletes the selection, or the unit after the cursor. At
// the end of a textblock it pulls the next textblock in.
func DeleteForward() Command {
	return basic{
		name: "deleteForward",
		applicable: func(s State) bool {
			if !s.Selection.IsCollapsed() {
				return true
			}
			return doc.ComparePos(doc.ClampPos(s.Doc, s.Selection.Head), doc.EndPos(s.Doc)) < 0
		},
		run: func(s State) (State, error) {
			if !s.Selection.IsCollapsed() {
				return DeleteSelection().Execute(s)
			}
			p := doc.ClampPos(s.Doc, s.Selection.Head)
			to := doc.Pos{Block: p.Block, Offset: p.Offset + 1}
			if p.Offset == doc.TextblockAt(s.Doc, p.Block).Size() {
				to = doc.Pos{Block: p.Block + 1}
			}
			root, changed := doc.DeleteRange(s.Doc, doc.Range{Start: p, End: to})
			if !changed {
				return s, ErrNoOp
			}
			return s.change(root, Cursor(p)), nil
		},
	}
}

// Undo restores the document and selection before the last change.
func Undo() Command {
	return basic{
		name:       "undo",
		applicable: func(s State) bool { return s.History.CanUndo() },
		run: func(s State) (State, error) {
			h, prev, ok := s.History.undoStep(snapshot{doc: s.Doc, sel: s.Selection})
			if !ok {
				return s, ErrNotApplicable
			}
			return restore(s, h, prev), nil
		},
	}
}

// Redo reapplies the last undone change.
func Redo() Command {
	return basic{
		name:       "redo",
		applicable: func(s State) bool { return s.History.CanRedo() },
		run: func(s State) (State, error) {
			h, next, ok := s.History.redoStep(snapshot{doc: s.Doc, sel: s.Selection})
			if !ok {
				return s, ErrNotApplicable
			}
			return restore(s, h, next), nil
		},
	}
}

func restore(s State, h History, snap snapshot) State {
	s.History = h
	s.Doc = snap.doc
	s.Selection = snap.sel.Resolve(snap.doc)
	s.StoredMarks, s.HasStoredMarks = nil, false
	return s
}
