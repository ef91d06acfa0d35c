package command

import "github.com/iw2rmb/tincture/doc"

// DefaultHistoryLimit bounds the undo stack of states built by NewState.
const DefaultHistoryLimit = 100

type snapshot struct {
	doc *doc.Node
	sel Selection
}

// History is an immutable pair of undo and redo stacks. Every method
// returns a new value; stacks are never appended to in place, so states
// sharing a history never observe each other's changes.
type History struct {
	undo  []snapshot
	redo  []snapshot
	limit int
}

// NewHistory returns an empty history keeping at most limit undo steps.
// A limit <= 0 disables recording.
func NewHistory(limit int) History { return History{limit: limit} }

func (h History) CanUndo() bool { return len(h.undo) > 0 }

func (h History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the number of undo and redo steps.
func (h History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// record pushes prev onto the undo stack and clears redo.
func (h History) record(prev snapshot) History {
	if h.limit <= 0 {
		return h
	}
	h.undo = pushBounded(h.undo, prev, h.limit)
	h.redo = nil
	return h
}

func pushBounded(stack []snapshot, s snapshot, limit int) []snapshot {
	out := append(stack[:len(stack):len(stack)], s)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (h History) undoStep(cur snapshot) (History, snapshot, bool) {
	if len(h.undo) == 0 {
		return h, snapshot{}, false
	}
	i := len(h.undo) - 1
	prev := h.undo[i]
	h.undo = h.undo[:i:i]
	h.redo = pushBounded(h.redo, cur, 0)
	return h, prev, true
}

func (h History) redoStep(cur snapshot) (History, snapshot, bool) {
	if len(h.redo) == 0 {
		return h, snapshot{}, false
	}
	i := len(h.redo) - 1
	next := h.redo[i]
	h.redo = h.redo[:i:i]
	h.undo = pushBounded(h.undo, cur, h.limit)
	return h, next, true
}
