// Package resize implements the pointer-driven image resize interaction:
// a drag on one of an image's corner handles previews new sizes once per
// frame and commits a single width when the drag ends.
package resize

import "math"

// Corner identifies a resize handle.
type Corner uint8

const (
	NW Corner = iota
	NE
	SW
	SE
)

var cornerNames = [...]string{NW: "nw", NE: "ne", SW: "sw", SE: "se"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "unknown"
}

// ParseCorner parses "nw", "ne", "sw" or "se".
func ParseCorner(s string) (Corner, bool) {
	for i, name := range cornerNames {
		if name == s {
			return Corner(i), true
		}
	}
	return 0, false
}

// West reports whether the handle sits on the left edge, where moving the
// pointer left grows the image.
func (c Corner) West() bool { return c == NW || c == SW }

// Cursor is the pointer cursor shown while dragging the handle.
func (c Corner) Cursor() string { return c.String() + "-resize" }

// DefaultMinWidth is the smallest width a drag can produce.
const DefaultMinWidth = 50

// Size is a previewed or committed image size. Width is always an integer
// pixel count; Height follows from it and the start aspect ratio.
type Size struct {
	Width  int
	Height float64
}

// Compute returns the size for a horizontal pointer delta dx applied to the
// handle c of an image that started at startWidth by startHeight. maxWidth
// of 0 means unbounded; minWidth wins when the bounds cross.
func Compute(startWidth, startHeight float64, c Corner, dx float64, minWidth, maxWidth int) Size {
	if c.West() {
		dx = -dx
	}
	w := int(math.Round(startWidth + dx))
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	if w < minWidth {
		w = minWidth
	}
	ratio := startWidth / startHeight
	return Size{Width: w, Height: float64(w) / ratio}
}
