package editor

import (
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/overlay"
)

type renderOptions struct {
	style   Style
	focused bool
	// sizeLabel is drawn on the top border of the selected image.
	sizeLabel string
}

type renderer struct {
	l    *layout
	opts renderOptions

	sel      doc.Range
	textSel  bool
	selected *doc.Node
	caretRow int
	caretCol int
	caret    bool
}

// renderLayout draws every row of l for state s.
func renderLayout(l *layout, s command.State, opts renderOptions) []string {
	r := renderer{l: l, opts: opts}
	if s.Doc != nil {
		r.sel = s.Selection.Range()
		r.textSel = !s.Selection.Node && !r.sel.IsEmpty()
		if img, _, ok := s.SelectedImage(); ok {
			r.selected = img
		}
		if opts.focused && s.Selection.IsCollapsed() {
			r.caretCol, r.caretRow, r.caret = l.locate(s.Selection.Head)
		}
	}
	out := make([]string, len(l.rows))
	for i := range l.rows {
		out[i] = r.row(i)
	}
	return out
}

func (r *renderer) row(i int) string {
	rw := r.l.rows[i]
	var sb strings.Builder
	if rw.prefix != "" {
		st := r.opts.style.Marker
		if rw.quote && !strings.ContainsAny(rw.prefix, "•.") {
			st = r.opts.style.Quote
		}
		sb.WriteString(st.Render(rw.prefix))
	}
	col := rw.prefixWidth
	switch rw.kind {
	case rowRule:
		sb.WriteString(r.opts.style.Rule.Render(strings.Repeat("─", max(r.l.width-rw.prefixWidth, 1))))
		return sb.String()
	case rowImage:
		col = r.image(&sb, rw, col)
	default:
		sb.WriteString(strings.Repeat(" ", rw.pad))
		col += rw.pad
		drewCaret := false
		for _, c := range rw.cells {
			caret := r.caret && i == r.caretRow && col == r.caretCol && !drewCaret
			text := c.text
			if c.brk {
				if !caret {
					break
				}
				text = " "
			}
			st := r.cellStyle(rw, c)
			if r.textSel && r.inSelection(c.pos) {
				st = r.opts.style.Selection.Inherit(st)
			}
			if caret {
				st = r.opts.style.Cursor.Inherit(st)
				drewCaret = true
			}
			sb.WriteString(st.Render(text))
			col += c.width
		}
		if r.caret && i == r.caretRow && !drewCaret && col == r.caretCol {
			sb.WriteString(r.opts.style.Cursor.Render(" "))
		}
		return sb.String()
	}
	if r.caret && i == r.caretRow && col == r.caretCol {
		sb.WriteString(r.opts.style.Cursor.Render(" "))
	}
	return sb.String()
}

func (r *renderer) inSelection(p doc.Pos) bool {
	return doc.ComparePos(p, r.sel.Start) >= 0 && doc.ComparePos(p, r.sel.End) < 0
}

func (r *renderer) cellStyle(rw row, c cell) lipgloss.Style {
	s := r.opts.style
	st := s.Text
	if rw.level > 0 {
		st = s.Headings[min(rw.level, len(s.Headings))-1]
	}
	for _, m := range c.leaf.Marks {
		switch m.Type {
		case doc.MarkBold:
			st = st.Bold(true)
		case doc.MarkItalic:
			st = st.Italic(true)
		case doc.MarkUnderline:
			st = st.Underline(true)
		case doc.MarkStrike:
			st = st.Strikethrough(true)
		case doc.MarkLink:
			st = s.Link.Inherit(st)
		case doc.MarkColor:
			if col, ok := parseColor(m.Value); ok {
				st = st.Foreground(terminalColor(col))
			}
		}
	}
	// A gradient paints over a plain color, as it does in a browser.
	if g, ok := c.leaf.Marks.Get(doc.MarkGradient); ok {
		if stops := gradientStops(g.Value); len(stops) > 0 {
			st = st.Foreground(terminalColor(gradientAt(stops, c.gradT)))
		}
	}
	return st
}

// image draws one line of an image box and returns the column after it.
func (r *renderer) image(sb *strings.Builder, rw row, col int) int {
	box := rw.img
	sb.WriteString(strings.Repeat(" ", max(box.col-col, 0)))
	col = box.col

	selected := r.selected != nil && r.selected == box.node
	st := r.opts.style.Image
	if selected {
		st = r.opts.style.ImageSelected
	} else if r.textSel && r.inSelection(box.pos) {
		st = r.opts.style.Selection.Inherit(st)
	}
	caretHere := r.caret && rw.imgLine == 0 && r.caretCol == box.col && r.caretRow == box.row

	inner := box.cols - 2
	var left, fill, right string
	switch rw.imgLine {
	case 0:
		left, right = "┌", "┐"
		fill = strings.Repeat("─", inner)
		if selected && r.opts.sizeLabel != "" && runewidth.StringWidth(r.opts.sizeLabel)+2 <= inner {
			fill = centerIn(" "+r.opts.sizeLabel+" ", inner, "─")
		}
	case box.rows - 1:
		left, right = "└", "┘"
		fill = strings.Repeat("─", inner)
	case (box.rows - 1) / 2:
		left, right = "│", "│"
		fill = centerIn(runewidth.Truncate(imageLabel(box.node), inner, "…"), inner, " ")
	default:
		left, right = "│", "│"
		fill = strings.Repeat(" ", inner)
	}
	if selected && (rw.imgLine == 0 || rw.imgLine == box.rows-1) {
		h := r.opts.style.Handle
		sb.WriteString(h.Render("■") + st.Render(fill) + h.Render("■"))
		return col + box.cols
	}
	if caretHere {
		sb.WriteString(r.opts.style.Cursor.Inherit(st).Render(left))
	} else {
		sb.WriteString(st.Render(left))
	}
	sb.WriteString(st.Render(fill + right))
	return col + box.cols
}

func imageLabel(n *doc.Node) string {
	if n.Image.Alt != "" {
		return n.Image.Alt
	}
	if strings.HasPrefix(n.Image.Src, "data:") {
		return "image"
	}
	return path.Base(n.Image.Src)
}

func centerIn(s string, width int, fill string) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, width-w-left)
}

// toolbarLine renders the image toolbar: the alignment modes with the
// active one highlighted.
func toolbarLine(style Style, box overlay.Box, img *doc.Node) string {
	if !box.Visible || img == nil {
		return ""
	}
	modes := []doc.ImageAlign{doc.ImageAlignLeft, doc.ImageAlignCenter, doc.ImageAlignRight, doc.ImageAlignInline}
	parts := make([]string, 0, len(modes)+1)
	for _, m := range modes {
		label := " " + string(m) + " "
		if img.Image.Align == m {
			label = "[" + string(m) + "]"
		}
		parts = append(parts, label)
	}
	parts = append(parts, " "+overlay.SizeLabel(box))
	return style.Toolbar.Render(strings.Join(parts, ""))
}
