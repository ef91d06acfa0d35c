package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.exec(command.InsertText(string(msg.Runes)))
		return m, nil
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.CancelDrag):
		m.ed.CancelDrag()

	case key.Matches(msg, km.Left):
		m.moveHorizontal(-1, false)
	case key.Matches(msg, km.Right):
		m.moveHorizontal(1, false)
	case key.Matches(msg, km.Up):
		m.moveVertical(-1, false)
	case key.Matches(msg, km.Down):
		m.moveVertical(1, false)
	case key.Matches(msg, km.ShiftLeft):
		m.moveHorizontal(-1, true)
	case key.Matches(msg, km.ShiftRight):
		m.moveHorizontal(1, true)
	case key.Matches(msg, km.ShiftUp):
		m.moveVertical(-1, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveVertical(1, true)
	case key.Matches(msg, km.Home):
		head := m.ed.State().Selection.Head
		m.ed.SetSelection(command.Cursor(doc.Pos{Block: head.Block}))
	case key.Matches(msg, km.End):
		st := m.ed.State()
		head := st.Selection.Head
		m.ed.SetSelection(command.Cursor(doc.Pos{Block: head.Block, Offset: doc.TextblockAt(st.Doc, head.Block).Size()}))

	case key.Matches(msg, km.Backspace):
		m.exec(command.DeleteBackward())
	case key.Matches(msg, km.Delete):
		m.exec(command.DeleteForward())
	case key.Matches(msg, km.HardBreak):
		m.exec(command.InsertHardBreak())
	case key.Matches(msg, km.Enter):
		m.exec(command.SplitBlock())

	case key.Matches(msg, km.Undo):
		m.exec(command.Undo())
	case key.Matches(msg, km.Redo):
		m.exec(command.Redo())
	case key.Matches(msg, km.Save):
		m.save()

	case key.Matches(msg, km.Bold):
		m.exec(command.ToggleBold())
	case key.Matches(msg, km.Italic):
		m.exec(command.ToggleItalic())
	case key.Matches(msg, km.Underline):
		m.exec(command.ToggleUnderline())
	case key.Matches(msg, km.Strike):
		m.exec(command.ToggleStrike())
	case key.Matches(msg, km.Paragraph):
		m.exec(command.SetParagraph())
	case key.Matches(msg, km.Heading1):
		m.exec(command.ToggleHeading(1))
	case key.Matches(msg, km.Heading2):
		m.exec(command.ToggleHeading(2))
	case key.Matches(msg, km.Heading3):
		m.exec(command.ToggleHeading(3))
	case key.Matches(msg, km.BulletList):
		m.exec(command.ToggleBulletList())
	case key.Matches(msg, km.OrderedList):
		m.exec(command.ToggleOrderedList())
	case key.Matches(msg, km.Quote):
		m.exec(command.ToggleBlockquote())
	case key.Matches(msg, km.Rule):
		m.exec(command.InsertHorizontalRule())

	case key.Matches(msg, km.AlignLeft):
		m.align(doc.ImageAlignLeft, doc.TextAlignLeft)
	case key.Matches(msg, km.AlignCenter):
		m.align(doc.ImageAlignCenter, doc.TextAlignCenter)
	case key.Matches(msg, km.AlignRight):
		m.align(doc.ImageAlignRight, doc.TextAlignRight)
	case key.Matches(msg, km.AlignInline):
		m.align(doc.ImageAlignInline, "")

	default:
		switch {
		case msg.Type == tea.KeySpace:
			m.exec(command.InsertText(" "))
		case msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt:
			m.exec(command.InsertText(string(msg.Runes)))
		}
	}
	return m, nil
}

// exec runs c and drops the no-op result; key presses that do nothing are
// not errors.
func (m Model) exec(c command.Command) {
	_ = m.ed.Exec(c)
}

// align applies to the selected image when there is one and to the
// selected textblocks otherwise.
func (m Model) align(image doc.ImageAlign, text doc.TextAlign) {
	if _, _, ok := m.ed.State().SelectedImage(); ok {
		m.exec(command.SetImageAlign(image))
		return
	}
	if text != "" {
		m.exec(command.SetTextAlign(text))
	}
}

func (m Model) moveHorizontal(dir int, extend bool) {
	st := m.ed.State()
	sel := st.Selection
	if !extend && !sel.IsCollapsed() {
		r := sel.Range()
		if dir < 0 {
			m.ed.SetSelection(command.Cursor(r.Start))
		} else {
			m.ed.SetSelection(command.Cursor(r.End))
		}
		return
	}
	head := sel.Head
	next, ok := stepPos(st.Doc, head, dir)
	if !ok {
		return
	}
	if extend {
		anchor := sel.Anchor
		if sel.Node {
			anchor = sel.Range().Start
		}
		m.ed.SetSelection(command.TextSelection(anchor, next))
		return
	}
	// Stepping over an image selects it first.
	imgAt := head
	if dir < 0 {
		imgAt = next
	}
	if n := doc.NodeAt(st.Doc, imgAt); n != nil && n.Kind == doc.KindImage && imgAt.Block == head.Block {
		m.ed.SetSelection(command.NodeSelection(imgAt))
		return
	}
	m.ed.SetSelection(command.Cursor(next))
}

func stepPos(root *doc.Node, p doc.Pos, dir int) (doc.Pos, bool) {
	p = doc.ClampPos(root, p)
	if dir < 0 {
		if p.Offset > 0 {
			return doc.Pos{Block: p.Block, Offset: p.Offset - 1}, true
		}
		if p.Block > 0 {
			return doc.Pos{Block: p.Block - 1, Offset: doc.TextblockAt(root, p.Block-1).Size()}, true
		}
		return p, false
	}
	if p.Offset < doc.TextblockAt(root, p.Block).Size() {
		return doc.Pos{Block: p.Block, Offset: p.Offset + 1}, true
	}
	if p.Block+1 < len(doc.Textblocks(root)) {
		return doc.Pos{Block: p.Block + 1}, true
	}
	return p, false
}

func (m Model) moveVertical(dir int, extend bool) {
	st := m.ed.State()
	sel := st.Selection
	l := m.surf.layout()
	x, y, ok := l.locate(sel.Head)
	if !ok {
		return
	}
	target := y + dir
	// Skip the remaining lines of an image box.
	for target >= 0 && target < len(l.rows) && l.rows[target].kind == rowImage && l.rows[y].kind == rowImage && l.rows[target].img == l.rows[y].img {
		target += dir
	}
	if target < 0 || target >= len(l.rows) {
		return
	}
	h := l.hitTest(x, target)
	switch {
	case extend:
		m.ed.SetSelection(command.TextSelection(sel.Anchor, h.pos))
	case h.image:
		m.ed.SetSelection(command.NodeSelection(h.pos))
	default:
		m.ed.SetSelection(command.Cursor(h.pos))
	}
}
