package editor

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/iw2rmb/tincture/doc"
	graphemeutil "github.com/iw2rmb/tincture/internal/grapheme"
	"github.com/iw2rmb/tincture/overlay"
	"github.com/iw2rmb/tincture/resize"
)

// cell is one inline unit placed on a text row.
type cell struct {
	pos   doc.Pos
	text  string
	width int
	leaf  *doc.Node
	// gradT is the position of the cell inside its gradient run.
	gradT float64
	brk   bool
}

type rowKind uint8

const (
	rowText rowKind = iota
	rowImage
	rowRule
)

type row struct {
	kind  rowKind
	block int
	// prefix is the list or quote decoration; prefixWidth cells wide.
	prefix      string
	prefixWidth int
	quote       bool
	level       int
	pad         int
	cells       []cell
	end         doc.Pos

	img     *imageBox
	imgLine int
}

type imageBox struct {
	pos        doc.Pos
	node       *doc.Node
	col, row   int
	cols, rows int
	rect       overlay.Rect
}

type layout struct {
	rows   []row
	images []*imageBox
	width  int
}

type layoutOptions struct {
	width     int
	display   Display
	imageSize func(src string) (int, int, bool)
	previewID string
	preview   resize.Size
}

type layoutBuilder struct {
	opts  layoutOptions
	out   *layout
	block int
}

func buildLayout(root *doc.Node, opts layoutOptions) *layout {
	if opts.width < 1 {
		opts.width = 1
	}
	b := &layoutBuilder{opts: opts, out: &layout{width: opts.width}}
	if root != nil {
		b.blocks(root.Children, "", false)
	}
	if len(b.out.rows) == 0 {
		b.out.rows = append(b.out.rows, row{kind: rowText})
	}
	return b.out
}

func (b *layoutBuilder) blocks(blocks []*doc.Node, prefix string, quote bool) {
	for _, n := range blocks {
		switch {
		case n.Kind.IsTextblock():
			b.textblock(n, prefix, prefix, quote)
		case n.Kind == doc.KindHorizontalRule:
			b.out.rows = append(b.out.rows, row{kind: rowRule, block: b.block, prefix: prefix, prefixWidth: cellWidth(prefix), quote: quote})
		case n.Kind == doc.KindBlockquote:
			b.blocks(n.Children, prefix+"│ ", true)
		case n.Kind.IsList():
			for i, item := range n.Children {
				marker := "• "
				if n.Kind == doc.KindOrderedList {
					marker = strconv.Itoa(i+1) + ". "
				}
				indent := strings.Repeat(" ", cellWidth(marker))
				for j, tb := range item.Children {
					first := prefix + indent
					if j == 0 {
						first = prefix + marker
					}
					b.textblock(tb, first, prefix+indent, quote)
				}
			}
		}
	}
}

func (b *layoutBuilder) textblock(tb *doc.Node, first, rest string, quote bool) {
	block := b.block
	b.block++

	level := 0
	if tb.Kind == doc.KindHeading {
		level = tb.Level
	}
	newRow := func() row {
		p := rest
		if len(b.out.rows) == 0 || b.out.rows[len(b.out.rows)-1].block != block || b.out.rows[len(b.out.rows)-1].kind == rowRule {
			p = first
		}
		return row{kind: rowText, block: block, prefix: p, prefixWidth: cellWidth(p), quote: quote, level: level}
	}
	started := false
	cur := newRow()
	avail := func(r row) int { return max(b.opts.width-r.prefixWidth, 1) }
	flush := func(end doc.Pos) {
		cur.end = end
		cur.pad = alignPad(tb.Align, avail(cur), rowWidth(cur.cells))
		b.out.rows = append(b.out.rows, cur)
		started = true
		cur = newRow()
	}

	cells := b.inlineCells(tb, block)
	for _, c := range cells {
		switch {
		case c.leaf.Kind == doc.KindImage:
			if len(cur.cells) > 0 {
				flush(c.pos)
			}
			b.image(c, cur, avail(cur), rest)
			started = true
			cur = newRow()
		case c.brk:
			cur.cells = append(cur.cells, c)
			flush(doc.Pos{Block: block, Offset: c.pos.Offset + 1})
		default:
			if rowWidth(cur.cells)+c.width > avail(cur) && len(cur.cells) > 0 {
				carry := wrapPoint(cur.cells)
				moved := append([]cell(nil), cur.cells[carry:]...)
				cur.cells = cur.cells[:carry]
				end := c.pos
				if len(moved) > 0 {
					end = moved[0].pos
				}
				flush(end)
				cur.cells = moved
			}
			cur.cells = append(cur.cells, c)
		}
	}
	if len(cur.cells) > 0 || !started || cellsEndWithBreak(b.out.rows, block) {
		flush(doc.Pos{Block: block, Offset: tb.Size()})
	}
}

func cellsEndWithBreak(rows []row, block int) bool {
	if len(rows) == 0 {
		return false
	}
	r := rows[len(rows)-1]
	return r.block == block && r.kind == rowText && len(r.cells) > 0 && r.cells[len(r.cells)-1].brk
}

// wrapPoint returns the index of the first cell moved to the next row:
// after the last space when there is one, otherwise none.
func wrapPoint(cells []cell) int {
	for i := len(cells) - 1; i > 0; i-- {
		if cells[i].text == " " {
			return i + 1
		}
	}
	return len(cells)
}

func (b *layoutBuilder) inlineCells(tb *doc.Node, block int) []cell {
	var out []cell
	offset := 0
	runStart, runValue := -1, ""
	closeRun := func() {
		if runStart < 0 {
			return
		}
		n := len(out) - runStart
		for i := runStart; i < len(out); i++ {
			if n > 1 {
				out[i].gradT = float64(i-runStart) / float64(n-1)
			}
		}
		runStart, runValue = -1, ""
	}
	for _, leaf := range tb.Children {
		g, hasGrad := leaf.Marks.Get(doc.MarkGradient)
		if !hasGrad || leaf.Kind != doc.KindText || g.Value != runValue {
			closeRun()
		}
		switch leaf.Kind {
		case doc.KindText:
			if hasGrad && runStart < 0 {
				runStart, runValue = len(out), g.Value
			}
			for _, gr := range graphemeutil.Split(leaf.Text) {
				out = append(out, cell{pos: doc.Pos{Block: block, Offset: offset}, text: gr, width: graphemeWidth(gr), leaf: leaf})
				offset++
			}
		case doc.KindHardBreak:
			out = append(out, cell{pos: doc.Pos{Block: block, Offset: offset}, leaf: leaf, brk: true})
			offset++
		default:
			out = append(out, cell{pos: doc.Pos{Block: block, Offset: offset}, leaf: leaf})
			offset++
		}
	}
	closeRun()
	return out
}

func (b *layoutBuilder) image(c cell, r row, avail int, rest string) {
	d := b.opts.display
	w, h := b.imagePixels(c.leaf, float64(avail)*d.CellWidth)
	cols := clampInt(int(math.Round(w/d.CellWidth)), 3, avail)
	rows := max(int(math.Round(h/d.CellHeight)), 3)
	col := 0
	switch c.leaf.Image.Align {
	case doc.ImageAlignCenter:
		col = (avail - cols) / 2
	case doc.ImageAlignRight:
		col = avail - cols
	}
	col = max(col, 0) + r.prefixWidth
	box := &imageBox{
		pos:  c.pos,
		node: c.leaf,
		col:  col,
		row:  len(b.out.rows),
		cols: cols,
		rows: rows,
		rect: overlay.Rect{X: float64(col) * d.CellWidth, Y: float64(len(b.out.rows)) * d.CellHeight, Width: w, Height: h},
	}
	b.out.images = append(b.out.images, box)
	for i := 0; i < rows; i++ {
		ir := r
		ir.kind = rowImage
		ir.cells = nil
		ir.img = box
		ir.imgLine = i
		if i > 0 {
			ir.prefix = rest
		}
		ir.end = doc.Pos{Block: c.pos.Block, Offset: c.pos.Offset + 1}
		b.out.rows = append(b.out.rows, ir)
	}
}

// imagePixels returns the displayed pixel size of an image. An explicit
// width keeps the intrinsic aspect ratio; otherwise the intrinsic size is
// shrunk to fit maxWidth.
func (b *layoutBuilder) imagePixels(n *doc.Node, maxWidth float64) (w, h float64) {
	if n.ID != "" && n.ID == b.opts.previewID {
		return float64(b.opts.preview.Width), b.opts.preview.Height
	}
	d := b.opts.display
	iw, ih := d.DefaultImageWidth, d.DefaultImageHeight
	if b.opts.imageSize != nil {
		if x, y, ok := b.opts.imageSize(n.Image.Src); ok && x > 0 && y > 0 {
			iw, ih = float64(x), float64(y)
		}
	}
	if n.Image.Width > 0 {
		w = float64(n.Image.Width)
		return w, w * ih / iw
	}
	if iw > maxWidth && maxWidth > 0 {
		return maxWidth, maxWidth * ih / iw
	}
	return iw, ih
}

func alignPad(align doc.TextAlign, avail, used int) int {
	free := avail - used
	if free <= 0 {
		return 0
	}
	switch align {
	case doc.TextAlignCenter:
		return free / 2
	case doc.TextAlignRight:
		return free
	}
	return 0
}

func rowWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += c.width
	}
	return w
}

func graphemeWidth(g string) int {
	w := runewidth.StringWidth(g)
	if w == 0 {
		w = uniseg.StringWidth(g)
	}
	return max(w, 1)
}

func cellWidth(s string) int { return runewidth.StringWidth(s) }

// hit is the document position under a terminal cell.
type hit struct {
	pos   doc.Pos
	image bool
}

// hitTest maps a cell in document coordinates to a position.
func (l *layout) hitTest(x, y int) hit {
	y = clampInt(y, 0, len(l.rows)-1)
	r := l.rows[y]
	switch r.kind {
	case rowImage:
		box := r.img
		switch {
		case x < box.col:
			return hit{pos: box.pos}
		case x >= box.col+box.cols:
			return hit{pos: r.end}
		}
		return hit{pos: box.pos, image: true}
	case rowRule:
		for _, next := range l.rows[y:] {
			if next.kind == rowText {
				return hit{pos: rowStart(next)}
			}
		}
		for i := y; i >= 0; i-- {
			if l.rows[i].kind == rowText {
				return hit{pos: l.rows[i].end}
			}
		}
		return hit{}
	}
	x -= r.prefixWidth + r.pad
	acc := 0
	for _, c := range r.cells {
		if c.brk {
			break
		}
		if x < acc+c.width {
			return hit{pos: c.pos}
		}
		acc += c.width
	}
	for _, c := range r.cells {
		if c.brk {
			return hit{pos: c.pos}
		}
	}
	return hit{pos: r.end}
}

func rowStart(r row) doc.Pos {
	if len(r.cells) > 0 {
		return r.cells[0].pos
	}
	return r.end
}

// locate returns the cell coordinates of position p.
func (l *layout) locate(p doc.Pos) (x, y int, ok bool) {
	for i, r := range l.rows {
		if r.block != p.Block {
			continue
		}
		switch r.kind {
		case rowText:
			acc := r.prefixWidth + r.pad
			for _, c := range r.cells {
				if c.pos == p {
					return acc, i, true
				}
				acc += c.width
			}
		case rowImage:
			if r.imgLine == 0 && r.img.pos == p {
				return r.img.col, i, true
			}
		}
	}
	for i := len(l.rows) - 1; i >= 0; i-- {
		r := l.rows[i]
		if r.block != p.Block || r.kind == rowRule || r.end != p {
			continue
		}
		if r.kind == rowImage {
			return r.img.col + r.img.cols, i, true
		}
		return r.prefixWidth + r.pad + rowWidth(r.cells), i, true
	}
	return 0, 0, false
}

func (l *layout) imageAt(p doc.Pos) (*imageBox, bool) {
	for _, box := range l.images {
		if box.pos == p {
			return box, true
		}
	}
	return nil, false
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
