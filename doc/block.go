package doc

import "slices"

// SetTextblock turns every textblock touched by r into kind (paragraph or
// heading of the given level).
func SetTextblock(root *Node, r Range, kind Kind, level int) (*Node, bool) {
	if !kind.IsTextblock() {
		return root, false
	}
	return mapTextblocks(root, r, func(tb *Node) {
		tb.Kind = kind
		tb.Level = 0
		if kind == KindHeading {
			tb.Level = clampLevel(level)
		}
	})
}

// SetTextAlign sets the alignment of every textblock touched by r.
func SetTextAlign(root *Node, r Range, align TextAlign) (*Node, bool) {
	if _, ok := ParseTextAlign(string(align)); !ok {
		return root, false
	}
	return mapTextblocks(root, r, func(tb *Node) { tb.Align = align })
}

func mapTextblocks(root *Node, r Range, fn func(tb *Node)) (*Node, bool) {
	r = ClampRange(root, r)
	out := root.Clone()
	for b, tb := range Textblocks(out) {
		if b >= r.Start.Block && b <= r.End.Block {
			fn(tb)
		}
	}
	out = normalize(out)
	if Equal(root, out) {
		return root, false
	}
	return out, true
}

// WrapperAt returns the kind of the top-level container holding textblock
// block, or KindDoc when the textblock sits at the top level.
func WrapperAt(root *Node, block int) Kind {
	path := pathTo(root, block)
	if len(path) < 3 {
		return KindDoc
	}
	return path[1].Kind
}

// RangeWrappedIn reports whether every textblock touched by r sits inside a
// top-level container of kind wrapper.
func RangeWrappedIn(root *Node, r Range, wrapper Kind) bool {
	r = ClampRange(root, r)
	for b := r.Start.Block; b <= r.End.Block; b++ {
		if WrapperAt(root, b) != wrapper {
			return false
		}
	}
	return true
}

// ToggleWrap wraps the textblocks touched by r in a container of kind
// wrapper (a list kind or KindBlockquote), or lifts them out of it when all
// of them already sit in one. The order and count of textblocks is kept, so
// positions stay valid.
func ToggleWrap(root *Node, r Range, wrapper Kind) (*Node, bool) {
	if !wrapper.IsList() && wrapper != KindBlockquote {
		return root, false
	}
	r = ClampRange(root, r)
	lift := RangeWrappedIn(root, r, wrapper)

	out := root.Clone()
	selected := make(map[*Node]bool)
	for b, tb := range Textblocks(out) {
		if b >= r.Start.Block && b <= r.End.Block {
			selected[tb] = true
		}
	}
	if lift {
		out.Children = liftBlocks(out.Children, selected)
	} else {
		out.Children = wrapBlocks(out.Children, selected, wrapper)
	}
	out = normalize(out)
	if Equal(root, out) {
		return root, false
	}
	return out, true
}

func liftBlocks(blocks []*Node, selected map[*Node]bool) []*Node {
	var out []*Node
	for _, b := range blocks {
		if !b.Kind.IsContainer() || !containsSelected(b, selected) {
			out = append(out, b)
			continue
		}
		var rest []*Node
		flush := func() {
			if len(rest) > 0 {
				out = append(out, &Node{Kind: b.Kind, Children: rest})
				rest = nil
			}
		}
		for _, unit := range b.Children {
			if !containsSelected(unit, selected) {
				rest = append(rest, unit)
				continue
			}
			flush()
			if unit.Kind == KindListItem {
				out = append(out, unit.Children...)
			} else {
				out = append(out, unit)
			}
		}
		flush()
	}
	return out
}

func wrapBlocks(blocks []*Node, selected map[*Node]bool, wrapper Kind) []*Node {
	lo, hi := -1, -1
	for i, b := range blocks {
		if containsSelected(b, selected) {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 {
		return blocks
	}

	out := append([]*Node(nil), blocks[:lo]...)
	var entries [][]*Node
	flush := func() {
		if len(entries) == 0 {
			return
		}
		w := &Node{Kind: wrapper}
		for _, e := range entries {
			if wrapper == KindBlockquote {
				w.Children = append(w.Children, e...)
			} else {
				w.Children = append(w.Children, &Node{Kind: KindListItem, Children: e})
			}
		}
		out = append(out, w)
		entries = nil
	}
	for _, b := range blocks[lo : hi+1] {
		switch {
		case b.Kind.IsTextblock():
			entries = append(entries, []*Node{b})
		case b.Kind.IsList():
			for _, it := range b.Children {
				entries = append(entries, it.Children)
			}
		case b.Kind == KindBlockquote:
			for _, tb := range b.Children {
				entries = append(entries, []*Node{tb})
			}
		default:
			flush()
			out = append(out, b)
		}
	}
	flush()
	return append(out, blocks[hi+1:]...)
}

func containsSelected(n *Node, selected map[*Node]bool) bool {
	if selected[n] {
		return true
	}
	if n.Kind.IsTextblock() {
		return false
	}
	for _, c := range n.Children {
		if containsSelected(c, selected) {
			return true
		}
	}
	return false
}

// SplitBlock splits the textblock at p in two and returns the position at
// the start of the second half. Inside a list the second half becomes a new
// item; splitting an empty item lifts it out of the list instead. A heading
// split at its end continues as a paragraph.
func SplitBlock(root *Node, p Pos) (*Node, Pos, error) {
	if !ValidPos(root, p) {
		return root, p, ErrOutOfRange
	}
	if path := pathTo(root, p.Block); len(path) >= 4 {
		tb, item, list := path[len(path)-1], path[len(path)-2], path[len(path)-3]
		if tb.Size() == 0 && item.Kind == KindListItem && len(item.Children) == 1 {
			out, _ := ToggleWrap(root, Range{Start: p, End: p}, list.Kind)
			return out, p, nil
		}
	}

	out := root.Clone()
	path := pathTo(out, p.Block)
	tb, parent := path[len(path)-1], path[len(path)-2]
	tail := splitTextblock(tb, p.Offset)

	idx := slices.Index(parent.Children, tb)
	if parent.Kind == KindListItem {
		list := path[len(path)-3]
		item := &Node{Kind: KindListItem, Children: append([]*Node{tail}, parent.Children[idx+1:]...)}
		parent.Children = parent.Children[:idx+1]
		list.Children = slices.Insert(list.Children, slices.Index(list.Children, parent)+1, item)
	} else {
		parent.Children = slices.Insert(parent.Children, idx+1, tail)
	}
	return normalize(out), Pos{Block: p.Block + 1}, nil
}

// splitTextblock keeps the content before offset in tb and returns a new
// textblock holding the rest.
func splitTextblock(tb *Node, offset int) *Node {
	before, after := splitInline(tb.Children, offset)
	tb.Children = before
	tail := &Node{Kind: tb.Kind, Level: tb.Level, Align: tb.Align, Children: after}
	if tb.Kind == KindHeading && len(after) == 0 {
		tail.Kind, tail.Level = KindParagraph, 0
	}
	return tail
}

// InsertRule inserts a horizontal rule at p and returns the position where
// editing continues. Rules live at the top level: inside a container the
// rule and a fresh paragraph follow the container.
func InsertRule(root *Node, p Pos) (*Node, Pos, error) {
	if !ValidPos(root, p) {
		return root, p, ErrOutOfRange
	}
	out := root.Clone()
	path := pathTo(out, p.Block)
	top := path[1]
	idx := slices.Index(out.Children, top)

	if len(path) == 2 {
		if p.Offset == 0 {
			out.Children = slices.Insert(out.Children, idx, Rule())
			return normalize(out), p, nil
		}
		tail := splitTextblock(top, p.Offset)
		out.Children = slices.Insert(out.Children, idx+1, Rule(), tail)
		return normalize(out), Pos{Block: p.Block + 1}, nil
	}

	next := len(Textblocks(&Node{Kind: KindDoc, Children: out.Children[:idx+1]}))
	out.Children = slices.Insert(out.Children, idx+1, Rule(), Paragraph())
	return normalize(out), Pos{Block: next}, nil
}

// pathTo returns the chain of nodes from root down to textblock block, or
// nil when there is no such textblock.
func pathTo(root *Node, block int) []*Node {
	if root == nil || block < 0 {
		return nil
	}
	seen := 0
	var path []*Node
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		path = append(path, n)
		if n.Kind.IsTextblock() {
			if seen == block {
				return true
			}
			seen++
		} else {
			for _, c := range n.Children {
				if walk(c) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if walk(root) {
		return path
	}
	return nil
}
