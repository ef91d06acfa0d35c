package doc

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Warning records one way in which Parse degraded its input. Warnings are
// diagnostics only; parsing never fails.
type Warning struct {
	Element string
	Reason  string
}

func (w Warning) String() string {
	if w.Element == "" {
		return w.Reason
	}
	return fmt.Sprintf("<%s>: %s", w.Element, w.Reason)
}

// Parse reads markup into a normalized document. Unknown elements are
// unwrapped (their text is kept), unknown attributes are dropped, and stray
// inline content is wrapped in paragraphs.
func Parse(markup string) *Node {
	root, _ := ParseWithWarnings(markup)
	return root
}

// ParseWithWarnings is Parse that also reports each degradation.
func ParseWithWarnings(markup string) (*Node, []Warning) {
	p := &parser{}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		p.warn("", "unreadable markup kept as plain text: "+err.Error())
		text := strings.ReplaceAll(p.text(markup), string(formattingSpace), " ")
		return NewDoc(Paragraph(Text(text))), p.warnings
	}
	root := &Node{Kind: KindDoc, Children: p.blocks(nodes, false)}
	return normalize(root), p.warnings
}

// formattingSpace stands in for a whitespace run that contains a line break
// or tab while a textblock is being built. Such runs are markup layout: they
// vanish at textblock edges and collapse to one space elsewhere. Runs of
// plain spaces are content and are kept verbatim.
const formattingSpace = '\uE000'

var formattingRun = regexp.MustCompile(`[ \t\n\r\f]*[\t\n\r\f][ \t\n\r\f]*`)

var skippedElements = map[string]bool{
	"script": true, "style": true, "template": true, "noscript": true,
	"iframe": true, "object": true, "embed": true, "head": true,
	"title": true, "meta": true, "link": true, "svg": true, "math": true,
}

var blockElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "hr": true,
	"div": true, "section": true, "article": true, "main": true, "header": true,
	"footer": true, "nav": true, "aside": true, "figure": true, "figcaption": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true,
	"td": true, "th": true, "pre": true, "dl": true, "dt": true, "dd": true,
	"form": true, "address": true, "fieldset": true, "details": true, "summary": true,
}

var markElements = map[string]MarkType{
	"strong": MarkBold, "b": MarkBold,
	"em": MarkItalic, "i": MarkItalic,
	"u":      MarkUnderline,
	"s":      MarkStrike,
	"strike": MarkStrike,
	"del":    MarkStrike,
}

type parser struct {
	warnings []Warning
}

func (p *parser) warn(element, reason string) {
	p.warnings = append(p.warnings, Warning{Element: element, Reason: reason})
}

func (p *parser) text(s string) string {
	s = formattingRun.ReplaceAllLiteralString(s, string(formattingSpace))
	return norm.NFC.String(s)
}

// blocks converts a sequence of sibling markup nodes into blocks. Runs of
// inline content between blocks become paragraphs, reported as a
// degradation unless quiet is set (bare text is normal inside list items
// and quotes).
func (p *parser) blocks(nodes []*html.Node, quiet bool) []*Node {
	var (
		out     []*Node
		pending []*html.Node
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		stray := pending
		pending = nil
		if isBlank(stray) {
			return
		}
		if !quiet {
			p.warn("", "inline content outside a block wrapped in a paragraph")
		}
		out = append(out, &Node{Kind: KindParagraph, Children: finishInline(p.inline(stray, nil, nil))})
	}

	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			pending = append(pending, n)
		case html.ElementNode:
			switch {
			case skippedElements[n.Data]:
				p.warn(n.Data, "element dropped with its content")
			case blockElements[n.Data]:
				flush()
				out = append(out, p.block(n)...)
			default:
				pending = append(pending, n)
			}
		}
	}
	flush()
	return out
}

func (p *parser) block(n *html.Node) []*Node {
	switch n.Data {
	case "p":
		return []*Node{p.textblock(n, KindParagraph, 0)}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		if level > MaxHeadingLevel {
			p.warn(n.Data, fmt.Sprintf("heading level clamped to %d", MaxHeadingLevel))
		}
		return []*Node{p.textblock(n, KindHeading, clampLevel(level))}
	case "ul", "ol":
		return []*Node{p.list(n)}
	case "blockquote":
		return []*Node{{Kind: KindBlockquote, Children: p.textblocksOnly(n.Data, p.blocks(children(n), true))}}
	case "hr":
		return []*Node{Rule()}
	case "li":
		p.warn(n.Data, "list item outside a list unwrapped")
		return p.blocks(children(n), true)
	case "div", "section", "article", "main", "header", "footer":
		return p.blocks(children(n), true)
	default:
		p.warn(n.Data, "unknown block unwrapped")
		return p.blocks(children(n), true)
	}
}

func (p *parser) textblock(n *html.Node, kind Kind, level int) *Node {
	tb := &Node{Kind: kind, Level: level}
	if v, ok := styleValue(parseStyle(attr(n, "style")), "text-align"); ok {
		if align, valid := ParseTextAlign(strings.ToLower(v)); valid {
			tb.Align = align
		} else {
			p.warn(n.Data, "unsupported text-align "+v+" dropped")
		}
	}
	tb.Children = finishInline(p.inline(children(n), nil, nil))
	return tb
}

func (p *parser) list(n *html.Node) *Node {
	kind := KindBulletList
	if n.Data == "ol" {
		kind = KindOrderedList
	}
	l := &Node{Kind: kind}

	var stray []*html.Node
	flushStray := func() {
		if len(stray) == 0 {
			return
		}
		nodes := stray
		stray = nil
		if isBlank(nodes) {
			return
		}
		p.warn(n.Data, "content outside list items wrapped in an item")
		l.Children = append(l.Children, p.listItems(n.Data, nodes)...)
	}
	for _, c := range children(n) {
		if c.Type == html.ElementNode && c.Data == "li" {
			flushStray()
			l.Children = append(l.Children, p.listItems("li", children(c))...)
			continue
		}
		stray = append(stray, c)
	}
	flushStray()
	return l
}

// listItems converts the content of one <li>. Nested lists are flattened:
// their items follow the current item as siblings.
func (p *parser) listItems(element string, nodes []*html.Node) []*Node {
	cur := &Node{Kind: KindListItem}
	items := []*Node{cur}
	for _, b := range p.blocks(nodes, true) {
		switch {
		case b.Kind.IsTextblock():
			if cur == nil {
				cur = &Node{Kind: KindListItem}
				items = append(items, cur)
			}
			cur.Children = append(cur.Children, b)
		case b.Kind.IsList():
			p.warn(element, "nested list flattened")
			if cur != nil && len(cur.Children) == 0 {
				items = items[:len(items)-1]
			}
			items = append(items, b.Children...)
			cur = nil
		case b.Kind == KindBlockquote:
			p.warn(element, "blockquote inside list item unwrapped")
			if cur == nil {
				cur = &Node{Kind: KindListItem}
				items = append(items, cur)
			}
			cur.Children = append(cur.Children, b.Children...)
		default:
			p.warn(element, b.Kind.String()+" inside list item dropped")
		}
	}
	if len(items) == 0 {
		items = append(items, &Node{Kind: KindListItem})
	}
	return items
}

func (p *parser) textblocksOnly(element string, blocks []*Node) []*Node {
	var out []*Node
	for _, b := range blocks {
		switch {
		case b.Kind.IsTextblock():
			out = append(out, b)
		case b.Kind.IsList():
			p.warn(element, "list inside "+element+" flattened")
			for _, it := range b.Children {
				out = append(out, it.Children...)
			}
		case b.Kind == KindBlockquote:
			p.warn(element, "nested blockquote flattened")
			out = append(out, b.Children...)
		default:
			p.warn(element, b.Kind.String()+" inside "+element+" dropped")
		}
	}
	return out
}

func (p *parser) inline(nodes []*html.Node, marks MarkSet, out []*Node) []*Node {
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			out = append(out, &Node{Kind: KindText, Text: p.text(n.Data), Marks: marks})
		case html.ElementNode:
			out = p.inlineElement(n, marks, out)
		}
	}
	return out
}

func (p *parser) inlineElement(n *html.Node, marks MarkSet, out []*Node) []*Node {
	if skippedElements[n.Data] {
		p.warn(n.Data, "element dropped with its content")
		return out
	}
	if t, ok := markElements[n.Data]; ok {
		return p.inline(children(n), marks.With(NewMark(t, "")), out)
	}

	switch n.Data {
	case "br":
		return append(out, &Node{Kind: KindHardBreak, Marks: marks})
	case "img":
		if img := p.image(n); img != nil {
			img.Marks = marks
			out = append(out, img)
		}
		return out
	case "a":
		if href := strings.TrimSpace(attr(n, "href")); href != "" {
			marks = marks.With(NewMark(MarkLink, href))
		} else {
			p.warn(n.Data, "link without href unwrapped")
		}
		return p.inline(children(n), marks, out)
	case "span":
		return p.inline(children(n), p.spanMarks(n, marks), out)
	}

	if blockElements[n.Data] {
		p.warn(n.Data, "block inside inline content unwrapped")
	} else {
		p.warn(n.Data, "unknown element unwrapped")
	}
	return p.inline(children(n), marks, out)
}

func (p *parser) spanMarks(n *html.Node, marks MarkSet) MarkSet {
	if g := strings.TrimSpace(attr(n, "data-gradient")); g != "" {
		marks = marks.With(NewMark(MarkGradient, g))
	}
	decls := parseStyle(attr(n, "style"))
	for _, sm := range []struct {
		prop string
		typ  MarkType
	}{
		{prop: "color", typ: MarkColor},
		{prop: "font-family", typ: MarkFontFamily},
		{prop: "font-size", typ: MarkFontSize},
	} {
		if v, ok := styleValue(decls, sm.prop); ok {
			marks = marks.With(NewMark(sm.typ, v))
		}
	}
	return marks
}

func (p *parser) image(n *html.Node) *Node {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		p.warn(n.Data, "image without src dropped")
		return nil
	}
	a := ImageAttrs{
		Src:   src,
		Alt:   attr(n, "alt"),
		Title: attr(n, "title"),
		Align: DefaultImageAlign,
	}
	if v, ok := attrOK(n, "width"); ok {
		if px, valid := ParsePixels(v); valid {
			a.Width = px
		} else {
			p.warn(n.Data, "unusable width "+v+" dropped")
		}
	}
	if a.Width == 0 {
		if v, ok := styleValue(parseStyle(attr(n, "style")), "width"); ok {
			if px, valid := ParsePixels(v); valid {
				a.Width = px
			} else {
				p.warn(n.Data, "unusable style width "+v+" dropped")
			}
		}
	}
	if v, ok := attrOK(n, "data-align"); ok {
		align, valid := ParseImageAlign(v)
		if !valid {
			p.warn(n.Data, "unknown alignment "+v+" replaced by "+string(DefaultImageAlign))
		}
		a.Align = align
	}
	return Image(a)
}

// finishInline resolves formatting whitespace once a textblock's inline
// content is complete.
func finishInline(leaves []*Node) []*Node {
	if len(leaves) == 0 {
		return nil
	}
	sentinel := string(formattingSpace)
	for _, l := range leaves {
		if l.Kind != KindText {
			break
		}
		if l.Text = strings.TrimLeft(l.Text, sentinel); l.Text != "" {
			break
		}
	}
	for i := len(leaves) - 1; i >= 0; i-- {
		l := leaves[i]
		if l.Kind != KindText {
			break
		}
		if l.Text = strings.TrimRight(l.Text, sentinel); l.Text != "" {
			break
		}
	}
	for _, l := range leaves {
		if l.Kind == KindText {
			l.Text = strings.ReplaceAll(l.Text, sentinel, " ")
		}
	}
	return leaves
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func isBlank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return false
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
