package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tincture/command"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if isWheelMouse(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if !m.focused {
		return m, nil
	}

	x, y := m.clampMouseToBounds(msg.X, msg.Y)
	docY := y + m.viewport.YOffset
	px, py := m.surf.toPixels(x, docY)

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.mouseInBounds(msg.X, msg.Y) {
			return m, nil
		}
		if m.ed.PointerDown(px, py) {
			return m, nil
		}
		h := m.surf.layout().hitTest(x, docY)
		sel := m.ed.State().Selection
		switch {
		case msg.Shift:
			m.mouseAnchor = sel.Anchor
			m.ed.SetSelection(command.TextSelection(sel.Anchor, h.pos))
		case h.image:
			m.mouseAnchor = h.pos
			m.ed.SetSelection(command.NodeSelection(h.pos))
		default:
			m.mouseAnchor = h.pos
			m.ed.SetSelection(command.Cursor(h.pos))
		}
		m.mouseDown = true

	case tea.MouseActionMotion:
		if m.ed.Dragging() {
			m.ed.PointerMove(px, py)
			return m, nil
		}
		// Text selection is suppressed while a resize cursor is held.
		if !m.mouseDown || m.drag.cursor != "" {
			return m, nil
		}
		h := m.surf.layout().hitTest(x, docY)
		if h.pos == m.mouseAnchor {
			return m, nil
		}
		m.ed.SetSelection(command.TextSelection(m.mouseAnchor, h.pos))

	case tea.MouseActionRelease:
		m.ed.PointerUp(px, py)
		m.mouseDown = false
	}
	return m, nil
}

func isWheelMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.viewport.Width > 0 {
		x = clampInt(x, 0, m.viewport.Width-1)
	}
	if m.viewport.Height > 0 {
		y = clampInt(y, 0, m.viewport.Height-1)
	}
	return x, y
}
