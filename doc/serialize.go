package doc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Serialize renders root as markup that Parse reads back into a
// structurally equal document.
func Serialize(root *Node) string {
	var sb strings.Builder
	if root == nil {
		return ""
	}
	if root.Kind != KindDoc {
		writeBlock(&sb, root)
		return sb.String()
	}
	for _, b := range root.Children {
		writeBlock(&sb, b)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, n *Node) {
	switch {
	case n.Kind.IsTextblock():
		tag := "p"
		if n.Kind == KindHeading {
			tag = "h" + strconv.Itoa(clampLevel(n.Level))
		}
		sb.WriteString("<" + tag)
		if n.Align != TextAlignDefault {
			sb.WriteString(` style="text-align:` + html.EscapeString(string(n.Align)) + `;"`)
		}
		sb.WriteByte('>')
		writeInline(sb, n.Children)
		sb.WriteString("</" + tag + ">")
	case n.Kind == KindHorizontalRule:
		sb.WriteString("<hr>")
	case n.Kind.IsContainer():
		tag := n.Kind.spec().tag
		sb.WriteString("<" + tag + ">")
		for _, c := range n.Children {
			writeBlock(sb, c)
		}
		sb.WriteString("</" + tag + ">")
	}
}

// markLayer is one wrapping element emitted around inline leaves.
type markLayer struct {
	key   string
	open  string
	close string
}

// markLayers returns the wrapping elements for a mark set, outermost first.
// All style marks (color, font family, font size, gradient) share one span.
func markLayers(marks MarkSet) []markLayer {
	var out []markLayer
	for _, m := range marks {
		switch m.Type {
		case MarkLink:
			open := `<a href="` + html.EscapeString(m.Value) + `">`
			out = append(out, markLayer{key: open, open: open, close: "</a>"})
		case MarkBold:
			out = append(out, markLayer{key: "strong", open: "<strong>", close: "</strong>"})
		case MarkItalic:
			out = append(out, markLayer{key: "em", open: "<em>", close: "</em>"})
		case MarkUnderline:
			out = append(out, markLayer{key: "u", open: "<u>", close: "</u>"})
		case MarkStrike:
			out = append(out, markLayer{key: "s", open: "<s>", close: "</s>"})
		}
	}
	if span, ok := styleSpan(marks); ok {
		out = append(out, markLayer{key: span, open: span, close: "</span>"})
	}
	return out
}

func styleSpan(marks MarkSet) (string, bool) {
	var (
		style    styleBuilder
		gradient string
		any      bool
	)
	for _, sm := range []struct {
		typ  MarkType
		prop string
	}{
		{typ: MarkColor, prop: "color"},
		{typ: MarkFontFamily, prop: "font-family"},
		{typ: MarkFontSize, prop: "font-size"},
	} {
		if m, ok := marks.Get(sm.typ); ok && m.Value != "" {
			style.add(sm.prop, m.Value)
			any = true
		}
	}
	if m, ok := marks.Get(MarkGradient); ok && m.Value != "" {
		gradient = m.Value
		style.add("background", gradient)
		style.add("-webkit-background-clip", "text")
		style.add("-webkit-text-fill-color", "transparent")
		style.add("background-clip", "text")
		any = true
	}
	if !any {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("<span")
	if gradient != "" {
		sb.WriteString(` data-gradient="` + html.EscapeString(gradient) + `"`)
	}
	sb.WriteString(` style="` + html.EscapeString(style.String()) + `">`)
	return sb.String(), true
}

// writeInline emits leaves keeping shared wrapping elements open across
// neighbours, so "<strong>a<em>b</em></strong>" stays one strong element.
func writeInline(sb *strings.Builder, leaves []*Node) {
	var open []markLayer
	for _, leaf := range leaves {
		want := markLayers(leaf.Marks)
		keep := 0
		for keep < len(open) && keep < len(want) && open[keep].key == want[keep].key {
			keep++
		}
		for i := len(open) - 1; i >= keep; i-- {
			sb.WriteString(open[i].close)
		}
		open = open[:keep]
		for _, l := range want[keep:] {
			sb.WriteString(l.open)
			open = append(open, l)
		}
		writeLeaf(sb, leaf)
	}
	for i := len(open) - 1; i >= 0; i-- {
		sb.WriteString(open[i].close)
	}
}

func writeLeaf(sb *strings.Builder, leaf *Node) {
	switch leaf.Kind {
	case KindText:
		sb.WriteString(html.EscapeString(leaf.Text))
	case KindHardBreak:
		sb.WriteString("<br>")
	case KindImage:
		writeImage(sb, leaf.Image.normalized())
	}
}

func writeImage(sb *strings.Builder, a ImageAttrs) {
	sb.WriteString(`<img src="` + html.EscapeString(a.Src) + `"`)
	if a.Alt != "" {
		sb.WriteString(` alt="` + html.EscapeString(a.Alt) + `"`)
	}
	if a.Title != "" {
		sb.WriteString(` title="` + html.EscapeString(a.Title) + `"`)
	}
	if a.Width > 0 {
		w := strconv.Itoa(a.Width)
		sb.WriteString(` width="` + w + `" style="width:` + w + `px;height:auto;"`)
	}
	sb.WriteString(` data-align="` + html.EscapeString(string(a.Align)) + `">`)
}
