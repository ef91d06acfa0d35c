package editor

import (
	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
)

// ChangeEvent is delivered after every content mutation.
type ChangeEvent struct {
	Version   uint64
	Selection command.Selection
	// Markup is the serialized document after the change; hosts persist it
	// as is.
	Markup string
}

// SelectionEvent is delivered when only the selection changed.
type SelectionEvent struct {
	Version   uint64
	Selection command.Selection
}

func buildChangeEvent(version uint64, s command.State) ChangeEvent {
	return ChangeEvent{
		Version:   version,
		Selection: s.Selection,
		Markup:    doc.Serialize(s.Doc),
	}
}
