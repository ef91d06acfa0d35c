package doc

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/iw2rmb/tincture/internal/grapheme"
)

var (
	ErrOutOfRange   = errors.New("doc: position out of range")
	ErrNoImage      = errors.New("doc: no image at position")
	ErrInvalidAttrs = errors.New("doc: invalid image attributes")
	ErrNotInline    = errors.New("doc: node is not an inline leaf")
)

// Mutations never modify their input. Each returns a new normalized root,
// or the input itself when nothing changed.

// SetMark applies m to every inline leaf in r, replacing marks of the same
// type. The boolean reports whether the document changed.
func SetMark(root *Node, r Range, m Mark) (*Node, bool) {
	return mapLeaves(root, r, func(l *Node) { l.Marks = l.Marks.With(m) })
}

// UnsetMark removes marks of type t from every inline leaf in r.
func UnsetMark(root *Node, r Range, t MarkType) (*Node, bool) {
	return mapLeaves(root, r, func(l *Node) { l.Marks = l.Marks.Without(t) })
}

func mapLeaves(root *Node, r Range, fn func(l *Node)) (*Node, bool) {
	r = ClampRange(root, r)
	if r.IsEmpty() {
		return root, false
	}
	out := root.Clone()
	for b, tb := range Textblocks(out) {
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
		before, mid, after := sliceInline(tb.Children, from, to)
		for _, l := range mid {
			fn(l)
		}
		tb.Children = concatInline(before, mid, after)
	}
	out = normalize(out)
	if Equal(root, out) {
		return root, false
	}
	return out, true
}

// UpdateNodeAttrs replaces the attributes of the image starting at p. The
// image keeps its identity and marks. An empty alignment selects the
// default.
func UpdateNodeAttrs(root *Node, p Pos, attrs ImageAttrs) (*Node, error) {
	if strings.TrimSpace(attrs.Src) == "" || attrs.Width < 0 {
		return root, ErrInvalidAttrs
	}
	if attrs.Align == "" {
		attrs.Align = DefaultImageAlign
	} else if _, ok := ParseImageAlign(string(attrs.Align)); !ok {
		return root, ErrInvalidAttrs
	}
	if !ValidPos(root, p) {
		return root, ErrOutOfRange
	}

	out := root.Clone()
	tb := TextblockAt(out, p.Block)
	off := 0
	for _, c := range tb.Children {
		if off == p.Offset && c.Kind == KindImage {
			c.Image = attrs
			return normalize(out), nil
		}
		off += c.Size()
		if off > p.Offset {
			break
		}
	}
	return root, ErrNoImage
}

// InsertNode inserts a copy of the inline leaf n at p, replacing nothing.
func InsertNode(root *Node, p Pos, n *Node) (*Node, error) {
	if n == nil || !n.Kind.IsInline() {
		return root, ErrNotInline
	}
	if !ValidPos(root, p) {
		return root, ErrOutOfRange
	}
	out := root.Clone()
	tb := TextblockAt(out, p.Block)
	before, after := splitInline(tb.Children, p.Offset)
	tb.Children = concatInline(before, []*Node{n.Clone()}, after)
	return normalize(out), nil
}

// InsertText inserts text with the given marks at p and returns the
// position after it. Line breaks and tabs become spaces.
func InsertText(root *Node, p Pos, text string, marks MarkSet) (*Node, Pos, error) {
	if !ValidPos(root, p) {
		return root, p, ErrOutOfRange
	}
	text = cleanText(text)
	if text == "" {
		return root, p, nil
	}
	out := root.Clone()
	tb := TextblockAt(out, p.Block)
	oldSize := tb.Size()
	before, after := splitInline(tb.Children, p.Offset)
	tb.Children = concatInline(before, []*Node{{Kind: KindText, Text: text, Marks: marks}}, after)
	out = normalize(out)

	// Combining characters may fuse with neighbours, so the cursor moves by
	// the growth of the textblock rather than by the inserted count.
	grown := TextblockAt(out, p.Block).Size() - oldSize
	return out, Pos{Block: p.Block, Offset: p.Offset + grown}, nil
}

var textReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ", "\f", " ", string(formattingSpace), " ")

func cleanText(s string) string {
	return norm.NFC.String(textReplacer.Replace(s))
}

// DeleteRange removes the content of r. A range spanning textblocks joins
// the first and last of them, removing the textblocks and horizontal rules
// in between and any container left empty.
func DeleteRange(root *Node, r Range) (*Node, bool) {
	r = ClampRange(root, r)
	if r.IsEmpty() {
		return root, false
	}
	out := root.Clone()
	tbs := Textblocks(out)
	first, last := tbs[r.Start.Block], tbs[r.End.Block]
	if first == last {
		before, _, after := sliceInline(first.Children, r.Start.Offset, r.End.Offset)
		first.Children = concatInline(before, after)
		return normalize(out), true
	}

	before, _ := splitInline(first.Children, r.Start.Offset)
	_, after := splitInline(last.Children, r.End.Offset)
	first.Children = concatInline(before, after)

	drop := make(map[*Node]bool)
	for _, tb := range tbs[r.Start.Block+1 : r.End.Block+1] {
		drop[tb] = true
	}
	inside := false
	var walk func(n *Node)
	walk = func(n *Node) {
		switch {
		case n == first:
			inside = true
		case n == last:
			inside = false
		case n.Kind == KindHorizontalRule && inside:
			drop[n] = true
		}
		for _, c := range n.Children {
			if c.Kind.IsInline() {
				return
			}
			walk(c)
		}
	}
	walk(out)
	out.Children = pruneBlocks(out.Children, drop)
	return normalize(out), true
}

// pruneBlocks removes dropped blocks and the containers they leave empty.
func pruneBlocks(blocks []*Node, drop map[*Node]bool) []*Node {
	out := blocks[:0]
	for _, b := range blocks {
		if drop[b] {
			continue
		}
		if b.Kind.IsContainer() {
			b.Children = pruneBlocks(b.Children, drop)
			if len(b.Children) == 0 {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// splitInline cuts inline content at offset. Text leaves straddling the
// offset are split in two; the input slice is not modified.
func splitInline(children []*Node, offset int) (before, after []*Node) {
	off := 0
	for i, c := range children {
		if offset <= off {
			return before, append([]*Node(nil), children[i:]...)
		}
		size := c.Size()
		if offset < off+size {
			head, tail := grapheme.Cut(c.Text, offset-off)
			b, a := *c, *c
			b.Text, a.Text = head, tail
			before = append(before, &b)
			return before, append([]*Node{&a}, children[i+1:]...)
		}
		before = append(before, c)
		off += size
	}
	return before, nil
}

func sliceInline(children []*Node, from, to int) (before, mid, after []*Node) {
	before, rest := splitInline(children, from)
	mid, after = splitInline(rest, to-from)
	return before, mid, after
}

func concatInline(parts ...[]*Node) []*Node {
	var out []*Node
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
