package command

import "github.com/iw2rmb/tincture/doc"

// State is the editing state commands operate on. It is a value: commands
// return a new State and never modify the one they were given.
type State struct {
	Doc       *doc.Node
	Selection Selection
	// StoredMarks override the marks at a collapsed cursor for the next
	// inserted text. HasStoredMarks distinguishes an empty override from
	// none.
	StoredMarks    doc.MarkSet
	HasStoredMarks bool
	History        History
}

// NewState returns a state for root with the cursor at its start and the
// default history limit.
func NewState(root *doc.Node) State {
	if root == nil {
		root = doc.NewDoc()
	}
	return State{Doc: root, History: NewHistory(DefaultHistoryLimit)}
}

// WithSelection returns s with sel resolved against the document. Stored
// marks are dropped when the cursor moves.
func (s State) WithSelection(sel Selection) State {
	sel = sel.Resolve(s.Doc)
	if sel != s.Selection {
		s.StoredMarks, s.HasStoredMarks = nil, false
	}
	s.Selection = sel
	return s
}

// ActiveMarks returns the marks that text typed at the selection would get.
func (s State) ActiveMarks() doc.MarkSet {
	if s.HasStoredMarks {
		return s.StoredMarks
	}
	if s.Selection.IsCollapsed() {
		return doc.MarksAt(s.Doc, s.Selection.Head)
	}
	leaves := doc.LeavesIn(s.Doc, s.Selection.Range())
	if len(leaves) == 0 {
		return doc.MarksAt(s.Doc, s.Selection.Range().Start)
	}
	return leaves[0].Marks
}

// SelectedImage returns the image selected as a node, if any.
func (s State) SelectedImage() (*doc.Node, doc.Pos, bool) {
	return s.Selection.SelectedImage(s.Doc)
}

// change returns s with the document replaced by root and the previous
// document recorded for undo.
func (s State) change(root *doc.Node, sel Selection) State {
	next := s
	next.History = s.History.record(snapshot{doc: s.Doc, sel: s.Selection})
	next.Doc = root
	next.Selection = sel.Resolve(root)
	next.StoredMarks, next.HasStoredMarks = nil, false
	return next
}

func (s State) withStoredMarks(marks doc.MarkSet) State {
	s.StoredMarks, s.HasStoredMarks = marks, true
	return s
}
