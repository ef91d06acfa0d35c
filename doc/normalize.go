package doc

import (
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// normalize enforces the structural invariants in place and returns n:
//
//   - the root holds at least one textblock; every container holds at
//     least one block
//   - textblocks hold no empty text and no adjacent texts with equal marks
//   - list kinds hold only list items; items and quotes hold only textblocks
//   - images have a valid alignment, a non-negative width and an identity
func normalize(root *Node) *Node {
	root.Kind = KindDoc
	root.Children = normalizeBlocks(root.Children)
	if len(Textblocks(root)) == 0 {
		root.Children = append(root.Children, Paragraph())
	}
	return root
}

func normalizeBlocks(blocks []*Node) []*Node {
	out := blocks[:0]
	for _, b := range blocks {
		if b == nil {
			continue
		}
		switch {
		case b.Kind.IsTextblock():
			if b.Kind == KindHeading {
				b.Level = clampLevel(b.Level)
			} else {
				b.Level = 0
			}
			b.Children = normalizeInline(b.Children)
			out = append(out, b)
		case b.Kind.IsList():
			items := b.Children[:0]
			for _, it := range b.Children {
				if it == nil || it.Kind != KindListItem {
					continue
				}
				it.Children = normalizeTextblocks(it.Children)
				items = append(items, it)
			}
			b.Children = items
			if len(items) > 0 {
				out = append(out, b)
			}
		case b.Kind == KindBlockquote:
			b.Children = normalizeTextblocks(b.Children)
			out = append(out, b)
		case b.Kind == KindHorizontalRule:
			b.Children = nil
			out = append(out, b)
		}
	}
	return out
}

func normalizeTextblocks(blocks []*Node) []*Node {
	out := blocks[:0]
	for _, b := range blocks {
		if b == nil || !b.Kind.IsTextblock() {
			continue
		}
		if b.Kind == KindHeading {
			b.Level = clampLevel(b.Level)
		} else {
			b.Level = 0
		}
		b.Children = normalizeInline(b.Children)
		out = append(out, b)
	}
	if len(out) == 0 {
		out = append(out, Paragraph())
	}
	return out
}

func normalizeInline(children []*Node) []*Node {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c == nil || !c.Kind.IsInline() {
			continue
		}
		c.Children = nil
		switch c.Kind {
		case KindText:
			if c.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == KindText && out[n-1].Marks.Equal(c.Marks) {
				merged := *out[n-1]
				merged.Text = norm.NFC.String(merged.Text + c.Text)
				out[n-1] = &merged
				continue
			}
		case KindImage:
			c.Image = c.Image.normalized()
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
