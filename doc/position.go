package doc

import (
	"fmt"
	"strings"

	"github.com/iw2rmb/tincture/internal/grapheme"
)

// Pos addresses a point between inline units. Block indexes the document's
// textblocks in document order; Offset counts inline units inside that
// textblock (see Node.Size).
type Pos struct {
	Block  int
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Block, p.Offset) }

// Range is a half-open span [Start, End) in document order.
type Range struct {
	Start Pos
	End   Pos
}

func (r Range) String() string { return r.Start.String() + "-" + r.End.String() }

// IsEmpty reports whether the range is collapsed.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// ComparePos orders positions in document order.
func ComparePos(a, b Pos) int {
	switch {
	case a.Block < b.Block:
		return -1
	case a.Block > b.Block:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// NormalizeRange orders the endpoints of r.
func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// Textblocks returns the paragraphs and headings of root in document order.
func Textblocks(root *Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind.IsTextblock() {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// TextblockAt returns the textblock with index block, or nil.
func TextblockAt(root *Node, block int) *Node {
	if block < 0 {
		return nil
	}
	tbs := Textblocks(root)
	if block >= len(tbs) {
		return nil
	}
	return tbs[block]
}

// EndPos returns the position after the last inline unit of the document.
func EndPos(root *Node) Pos {
	tbs := Textblocks(root)
	if len(tbs) == 0 {
		return Pos{}
	}
	last := len(tbs) - 1
	return Pos{Block: last, Offset: tbs[last].Size()}
}

// ValidPos reports whether p addresses a point inside the document.
func ValidPos(root *Node, p Pos) bool {
	tb := TextblockAt(root, p.Block)
	return tb != nil && p.Offset >= 0 && p.Offset <= tb.Size()
}

// ClampPos moves p to the nearest valid position.
func ClampPos(root *Node, p Pos) Pos {
	tbs := Textblocks(root)
	if len(tbs) == 0 {
		return Pos{}
	}
	if p.Block < 0 {
		return Pos{}
	}
	if p.Block >= len(tbs) {
		last := len(tbs) - 1
		return Pos{Block: last, Offset: tbs[last].Size()}
	}
	size := tbs[p.Block].Size()
	switch {
	case p.Offset < 0:
		p.Offset = 0
	case p.Offset > size:
		p.Offset = size
	}
	return p
}

// ClampRange clamps and orders both endpoints of r.
func ClampRange(root *Node, r Range) Range {
	return NormalizeRange(Range{Start: ClampPos(root, r.Start), End: ClampPos(root, r.End)})
}

// NodeAt returns the inline leaf that starts at p, or nil when p is out of
// range or sits at the end of its textblock.
func NodeAt(root *Node, p Pos) *Node {
	tb := TextblockAt(root, p.Block)
	if tb == nil || p.Offset < 0 {
		return nil
	}
	off := 0
	for _, c := range tb.Children {
		size := c.Size()
		if p.Offset >= off && p.Offset < off+size {
			if c.Kind == KindText && p.Offset != off {
				// Positions inside a text leaf address its tail.
				_, tail := grapheme.Cut(c.Text, p.Offset-off)
				return &Node{Kind: KindText, Text: tail, Marks: c.Marks}
			}
			return c
		}
		off += size
	}
	return nil
}

// MarksAt returns the marks that apply at p: those of the unit before p, or
// of the unit after p at the start of a textblock.
func MarksAt(root *Node, p Pos) MarkSet {
	tb := TextblockAt(root, p.Block)
	if tb == nil || p.Offset < 0 {
		return nil
	}
	off := 0
	for _, c := range tb.Children {
		size := c.Size()
		if p.Offset == 0 || p.Offset <= off+size {
			return c.Marks
		}
		off += size
	}
	return nil
}

// FindImage returns the position of the image with the given identity.
func FindImage(root *Node, id string) (Pos, bool) {
	if id == "" {
		return Pos{}, false
	}
	for b, tb := range Textblocks(root) {
		off := 0
		for _, c := range tb.Children {
			if c.Kind == KindImage && c.ID == id {
				return Pos{Block: b, Offset: off}, true
			}
			off += c.Size()
		}
	}
	return Pos{}, false
}

// LeavesIn returns the inline leaves covered by r, with text leaves cut to
// the covered part.
func LeavesIn(root *Node, r Range) []*Node {
	r = NormalizeRange(r)
	var out []*Node
	for b, tb := range Textblocks(root) {
		if b < r.Start.Block || b > r.End.Block {
			continue
		}
		from, to := 0, tb.Size()
		if b == r.Start.Block {
			from = r.Start.Offset
		}
		if b == r.End.Block {
			to = r.End.Offset
		}
		off := 0
		for _, c := range tb.Children {
			size := c.Size()
			lo, hi := max(from, off), min(to, off+size)
			if lo < hi {
				if c.Kind == KindText && (lo > off || hi < off+size) {
					out = append(out, &Node{
						Kind:  KindText,
						Text:  grapheme.Slice(c.Text, lo-off, hi-off),
						Marks: c.Marks,
					})
				} else {
					out = append(out, c)
				}
			}
			off += size
		}
	}
	return out
}

// RangeHasMark reports whether every leaf in r carries a mark of type t.
// An empty range checks the marks at its position.
func RangeHasMark(root *Node, r Range, t MarkType) bool {
	if r.IsEmpty() {
		return MarksAt(root, r.Start).Has(t)
	}
	leaves := LeavesIn(root, r)
	if len(leaves) == 0 {
		return false
	}
	for _, l := range leaves {
		if !l.Marks.Has(t) {
			return false
		}
	}
	return true
}

// TextBetween returns the plain text of r. Textblock boundaries become
// newlines; images contribute nothing.
func TextBetween(root *Node, r Range) string {
	r = NormalizeRange(r)
	var sb strings.Builder
	prevBlock := -1
	for _, l := range leavesWithBlock(root, r) {
		if prevBlock >= 0 && l.block != prevBlock {
			sb.WriteByte('\n')
		}
		prevBlock = l.block
		switch l.node.Kind {
		case KindText:
			sb.WriteString(l.node.Text)
		case KindHardBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

type blockLeaf struct {
	block int
	node  *Node
}

func leavesWithBlock(root *Node, r Range) []blockLeaf {
	var out []blockLeaf
	for b := r.Start.Block; b <= r.End.Block; b++ {
		sub := Range{Start: Pos{Block: b}, End: Pos{Block: b, Offset: 1 << 30}}
		if b == r.Start.Block {
			sub.Start = r.Start
		}
		if b == r.End.Block {
			sub.End = r.End
		}
		leaves := LeavesIn(root, sub)
		if len(leaves) == 0 && b != r.Start.Block {
			out = append(out, blockLeaf{block: b, node: &Node{Kind: KindText}})
		}
		for _, l := range leaves {
			out = append(out, blockLeaf{block: b, node: l})
		}
	}
	return out
}
