package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor key bindings.
//
// Bindings must be portable across terminals (ctrl/alt fallbacks).
type KeyMap struct {
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding
	Home, End                                 key.Binding

	Backspace, Delete key.Binding
	Enter, HardBreak  key.Binding

	Undo, Redo key.Binding
	Save       key.Binding

	Bold, Italic, Underline, Strike key.Binding
	Paragraph                       key.Binding
	Heading1, Heading2, Heading3    key.Binding
	BulletList, OrderedList, Quote  key.Binding
	Rule                            key.Binding

	AlignLeft, AlignCenter, AlignRight, AlignInline key.Binding
	CancelDrag                                      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),
		ShiftUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		ShiftDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),

		Home: key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "block start")),
		End:  key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "block end")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new paragraph")),
		// Terminals rarely report shift+enter.
		HardBreak: key.NewBinding(key.WithKeys("alt+enter", "shift+enter"), key.WithHelp("alt+enter", "line break")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y", "ctrl+shift+z"), key.WithHelp("ctrl+y", "redo")),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		// ctrl+i is tab in most terminals.
		Bold:      key.NewBinding(key.WithKeys("ctrl+b", "alt+b"), key.WithHelp("ctrl+b", "bold")),
		Italic:    key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
		Underline: key.NewBinding(key.WithKeys("ctrl+u", "alt+u"), key.WithHelp("ctrl+u", "underline")),
		Strike:    key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "strike")),

		Paragraph:   key.NewBinding(key.WithKeys("alt+0"), key.WithHelp("alt+0", "paragraph")),
		Heading1:    key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1", "heading 1")),
		Heading2:    key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "heading 2")),
		Heading3:    key.NewBinding(key.WithKeys("alt+3"), key.WithHelp("alt+3", "heading 3")),
		BulletList:  key.NewBinding(key.WithKeys("alt+8"), key.WithHelp("alt+8", "bullet list")),
		OrderedList: key.NewBinding(key.WithKeys("alt+7"), key.WithHelp("alt+7", "ordered list")),
		Quote:       key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "blockquote")),
		Rule:        key.NewBinding(key.WithKeys("alt+-"), key.WithHelp("alt+-", "horizontal rule")),

		AlignLeft:   key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "align left")),
		AlignCenter: key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "align center")),
		AlignRight:  key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "align right")),
		AlignInline: key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "inline")),
		CancelDrag:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel resize")),
	}
}
