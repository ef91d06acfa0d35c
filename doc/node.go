package doc

import (
	"github.com/google/uuid"

	"github.com/iw2rmb/tincture/internal/grapheme"
)

// TextAlign is the horizontal alignment of a textblock. The empty value
// leaves alignment to the renderer.
type TextAlign string

const (
	TextAlignDefault TextAlign = ""
	TextAlignLeft    TextAlign = "left"
	TextAlignCenter  TextAlign = "center"
	TextAlignRight   TextAlign = "right"
)

// ParseTextAlign validates a textblock alignment.
func ParseTextAlign(s string) (TextAlign, bool) {
	switch a := TextAlign(s); a {
	case TextAlignDefault, TextAlignLeft, TextAlignCenter, TextAlignRight:
		return a, true
	default:
		return TextAlignDefault, false
	}
}

// ImageAlign is the placement mode of an image relative to surrounding text.
type ImageAlign string

const (
	ImageAlignLeft   ImageAlign = "left"
	ImageAlignCenter ImageAlign = "center"
	ImageAlignRight  ImageAlign = "right"
	ImageAlignInline ImageAlign = "inline"
)

// DefaultImageAlign applies to images that do not state an alignment.
const DefaultImageAlign = ImageAlignCenter

// ParseImageAlign validates an image alignment mode.
func ParseImageAlign(s string) (ImageAlign, bool) {
	switch a := ImageAlign(s); a {
	case ImageAlignLeft, ImageAlignCenter, ImageAlignRight, ImageAlignInline:
		return a, true
	default:
		return DefaultImageAlign, false
	}
}

// ImageAttrs are the attributes of an image node.
type ImageAttrs struct {
	Src   string
	Alt   string
	Title string
	// Width in pixels. Zero means absent: the image shows at intrinsic size.
	Width int
	Align ImageAlign
}

func (a ImageAttrs) normalized() ImageAttrs {
	if _, ok := ParseImageAlign(string(a.Align)); !ok {
		a.Align = DefaultImageAlign
	}
	if a.Width < 0 {
		a.Width = 0
	}
	return a
}

// Node is one element of the document tree. Kind selects which fields are
// meaningful:
//
//   - KindHeading: Level (1..MaxHeadingLevel)
//   - KindParagraph, KindHeading: Align, Children (inline nodes)
//   - KindText: Text, Marks
//   - KindImage: Image, ID, Marks
//   - KindHardBreak: Marks
//   - containers: Children (blocks)
type Node struct {
	Kind  Kind
	Level int
	Align TextAlign
	Text  string
	Image ImageAttrs
	// ID identifies an image for the lifetime of an editing session. It is
	// not serialized and does not take part in Equal.
	ID       string
	Marks    MarkSet
	Children []*Node
}

// NewDoc returns a root node holding blocks, or one empty paragraph when no
// blocks are given.
func NewDoc(blocks ...*Node) *Node {
	root := &Node{Kind: KindDoc, Children: blocks}
	return normalize(root)
}

// Paragraph builds a paragraph holding inline nodes.
func Paragraph(inline ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: inline}
}

// Heading builds a heading of the given level holding inline nodes.
func Heading(level int, inline ...*Node) *Node {
	return &Node{Kind: KindHeading, Level: clampLevel(level), Children: inline}
}

// Text builds a text leaf.
func Text(s string, marks ...Mark) *Node {
	var set MarkSet
	for _, m := range marks {
		set = set.With(m)
	}
	return &Node{Kind: KindText, Text: s, Marks: set}
}

// Image builds an image leaf with a fresh identity.
func Image(attrs ImageAttrs) *Node {
	return &Node{Kind: KindImage, Image: attrs.normalized(), ID: uuid.NewString()}
}

// HardBreak builds a line break leaf.
func HardBreak() *Node {
	return &Node{Kind: KindHardBreak}
}

// Rule builds a horizontal rule block.
func Rule() *Node {
	return &Node{Kind: KindHorizontalRule}
}

// List builds a bullet or ordered list with one item per textblock.
func List(kind Kind, blocks ...*Node) *Node {
	if !kind.IsList() {
		kind = KindBulletList
	}
	l := &Node{Kind: kind}
	for _, b := range blocks {
		l.Children = append(l.Children, &Node{Kind: KindListItem, Children: []*Node{b}})
	}
	return l
}

// Blockquote builds a blockquote holding textblocks.
func Blockquote(blocks ...*Node) *Node {
	return &Node{Kind: KindBlockquote, Children: blocks}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxHeadingLevel {
		return MaxHeadingLevel
	}
	return level
}

// Clone returns a deep copy of n. Image identities are preserved.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

// Size returns the number of inline units n occupies: one per grapheme
// cluster for text, one for images and hard breaks, and the sum of the
// children for textblocks.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindText:
		return grapheme.Count(n.Text)
	case KindImage, KindHardBreak:
		return 1
	}
	if n.Kind.IsTextblock() {
		size := 0
		for _, c := range n.Children {
			size += c.Size()
		}
		return size
	}
	return 0
}

// Equal reports whether a and b are structurally equal: same kinds,
// attributes, text and marks throughout. Image identities are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Level != b.Level || a.Align != b.Align || a.Text != b.Text {
		return false
	}
	if a.Image != b.Image || !a.Marks.Equal(b.Marks) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
