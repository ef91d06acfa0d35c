package doc

// Kind identifies the variant of a Node.
type Kind uint8

const (
	KindDoc Kind = iota
	KindParagraph
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindHorizontalRule
	KindText
	KindImage
	KindHardBreak
)

type kindSpec struct {
	name string
	// tag is the element emitted by Serialize; empty for kinds that are not
	// elements of their own (doc root, text).
	tag       string
	inline    bool
	textblock bool
	container bool
}

var kinds = [...]kindSpec{
	KindDoc:            {name: "doc", container: true},
	KindParagraph:      {name: "paragraph", tag: "p", textblock: true},
	KindHeading:        {name: "heading", tag: "h", textblock: true},
	KindBulletList:     {name: "bulletList", tag: "ul", container: true},
	KindOrderedList:    {name: "orderedList", tag: "ol", container: true},
	KindListItem:       {name: "listItem", tag: "li", container: true},
	KindBlockquote:     {name: "blockquote", tag: "blockquote", container: true},
	KindHorizontalRule: {name: "horizontalRule", tag: "hr"},
	KindText:           {name: "text", inline: true},
	KindImage:          {name: "image", tag: "img", inline: true},
	KindHardBreak:      {name: "hardBreak", tag: "br", inline: true},
}

func (k Kind) spec() kindSpec {
	if int(k) >= len(kinds) {
		return kindSpec{name: "unknown"}
	}
	return kinds[k]
}

func (k Kind) String() string { return k.spec().name }

// IsInline reports whether nodes of this kind live inside textblocks.
func (k Kind) IsInline() bool { return k.spec().inline }

// IsTextblock reports whether nodes of this kind hold inline content.
func (k Kind) IsTextblock() bool { return k.spec().textblock }

// IsContainer reports whether nodes of this kind hold other blocks.
func (k Kind) IsContainer() bool { return k.spec().container }

// IsList reports whether k is one of the list kinds.
func (k Kind) IsList() bool { return k == KindBulletList || k == KindOrderedList }

// MaxHeadingLevel is the deepest heading level the model keeps. Deeper
// headings in parsed markup are clamped to it.
const MaxHeadingLevel = 3
