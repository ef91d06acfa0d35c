package command

import (
	"fmt"

	"github.com/iw2rmb/tincture/doc"
)

// Selection is either a text selection between Anchor and Head (a cursor
// when they are equal) or, when Node is set, a node selection of the image
// starting at Anchor.
type Selection struct {
	Anchor doc.Pos
	Head   doc.Pos
	Node   bool
}

// Cursor returns a collapsed selection at p.
func Cursor(p doc.Pos) Selection { return Selection{Anchor: p, Head: p} }

// TextSelection returns a selection from anchor to head.
func TextSelection(anchor, head doc.Pos) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NodeSelection selects the inline node starting at p.
func NodeSelection(p doc.Pos) Selection {
	return Selection{Anchor: p, Head: doc.Pos{Block: p.Block, Offset: p.Offset + 1}, Node: true}
}

func (s Selection) String() string {
	if s.Node {
		return "node@" + s.Anchor.String()
	}
	if s.Anchor == s.Head {
		return "cursor@" + s.Head.String()
	}
	return fmt.Sprintf("text %s..%s", s.Anchor, s.Head)
}

// Range returns the selected range in document order.
func (s Selection) Range() doc.Range {
	return doc.NormalizeRange(doc.Range{Start: s.Anchor, End: s.Head})
}

// IsCollapsed reports whether s is a cursor.
func (s Selection) IsCollapsed() bool { return !s.Node && s.Anchor == s.Head }

// SelectedImage returns the image when s selects exactly one image node.
func (s Selection) SelectedImage(root *doc.Node) (*doc.Node, doc.Pos, bool) {
	if !s.Node {
		return nil, doc.Pos{}, false
	}
	p := s.Range().Start
	n := doc.NodeAt(root, p)
	if n == nil || n.Kind != doc.KindImage {
		return nil, doc.Pos{}, false
	}
	return n, p, true
}

// Resolve maps s onto root: positions are clamped and a node selection
// that no longer addresses an image degrades to a cursor.
func (s Selection) Resolve(root *doc.Node) Selection {
	if s.Node {
		p := s.Range().Start
		if n := doc.NodeAt(root, p); n != nil && n.Kind == doc.KindImage {
			return NodeSelection(p)
		}
		return Cursor(doc.ClampPos(root, p))
	}
	return TextSelection(doc.ClampPos(root, s.Anchor), doc.ClampPos(root, s.Head))
}
