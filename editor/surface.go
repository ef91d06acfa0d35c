package editor

import (
	"fmt"

	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/overlay"
)

// surface measures the terminal layout in document pixels. The layout is
// rebuilt lazily whenever the document, the width or the resize preview
// changes.
type surface struct {
	ed        *Editor
	display   Display
	imageSize func(src string) (int, int, bool)
	width     int
	destroyed bool

	cache *layout
	key   layoutKey
}

type layoutKey struct {
	root      *doc.Node
	width     int
	previewID string
	previewW  int
}

func (s *surface) layout() *layout {
	var root *doc.Node
	key := layoutKey{width: s.width}
	opts := layoutOptions{width: s.width, display: s.display, imageSize: s.imageSize}
	if s.ed != nil {
		root = s.ed.State().Doc
		key.root = root
		if id, size, ok := s.ed.Preview(); ok {
			key.previewID, key.previewW = id, size.Width
			opts.previewID, opts.preview = id, size
		}
	}
	if s.cache != nil && s.key == key {
		return s.cache
	}
	s.cache, s.key = buildLayout(root, opts), key
	return s.cache
}

func (s *surface) Destroyed() bool { return s.destroyed }

func (s *surface) Bounds() (overlay.Rect, error) {
	if s.destroyed {
		return overlay.Rect{}, overlay.ErrUnavailable
	}
	l := s.layout()
	return overlay.Rect{
		Width:  float64(l.width) * s.display.CellWidth,
		Height: float64(len(l.rows)) * s.display.CellHeight,
	}, nil
}

func (s *surface) NodeBounds(p doc.Pos) (overlay.Rect, error) {
	if s.destroyed {
		return overlay.Rect{}, overlay.ErrUnavailable
	}
	box, ok := s.layout().imageAt(p)
	if !ok {
		return overlay.Rect{}, fmt.Errorf("%w: no image at %s", overlay.ErrUnavailable, p)
	}
	return box.rect, nil
}

// toPixels maps a cell in document coordinates to the pixel at its
// centre.
func (s *surface) toPixels(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * s.display.CellWidth, (float64(y) + 0.5) * s.display.CellHeight
}

// dragStyle is the terminal stand-in for the page-wide drag style: while
// held, mouse motion never extends the text selection and the status line
// shows the resize cursor.
type dragStyle struct {
	cursor string
}

func (d *dragStyle) Suppress(cursor string) func() {
	prev := d.cursor
	d.cursor = cursor
	return func() { d.cursor = prev }
}
