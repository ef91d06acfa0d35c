package overlay

import (
	"fmt"
	"math"

	"github.com/iw2rmb/tincture/resize"
)

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether (x, y) lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@%g,%g", r.Width, r.Height, r.X, r.Y)
}

// DefaultHandleSize is the edge length of a corner handle.
const DefaultHandleSize = 12

// Handle is one corner control of a selected image.
type Handle struct {
	Corner resize.Corner
	Rect   Rect
}

// Handles returns the four corner handles of box, each a square of the
// given size centred on its corner. A hidden box has no handles.
func Handles(box Box, size float64) []Handle {
	if !box.Visible {
		return nil
	}
	if size <= 0 {
		size = DefaultHandleSize
	}
	half := size / 2
	r := box.Rect
	at := func(c resize.Corner, x, y float64) Handle {
		return Handle{Corner: c, Rect: Rect{X: x - half, Y: y - half, Width: size, Height: size}}
	}
	return []Handle{
		at(resize.NW, r.X, r.Y),
		at(resize.NE, r.Right(), r.Y),
		at(resize.SW, r.X, r.Bottom()),
		at(resize.SE, r.Right(), r.Bottom()),
	}
}

// HitHandle returns the corner whose handle contains (x, y).
func HitHandle(box Box, x, y, size float64) (resize.Corner, bool) {
	for _, h := range Handles(box, size) {
		if h.Rect.Contains(x, y) {
			return h.Corner, true
		}
	}
	return 0, false
}

// Toolbar placement constants, in surface pixels.
const (
	ToolbarGap     = 8
	ToolbarPadding = 10
)

// ToolbarSize is the footprint of the floating image toolbar.
type ToolbarSize struct {
	Width, Height float64
}

// DefaultToolbarSize approximates the alignment toolbar with its hint line.
var DefaultToolbarSize = ToolbarSize{Width: 460, Height: 120}

// ToolbarPosition places a toolbar of the given size for box on a surface
// of width surfaceWidth. The toolbar is centred above the image, kept
// inside the surface with padding, and moved below the image when there is
// no room above. below reports the flip.
func ToolbarPosition(box Box, surfaceWidth float64, size ToolbarSize) (x, y float64, below bool) {
	r := box.Rect
	y = r.Y - size.Height - ToolbarGap
	x = r.X + r.Width/2 - size.Width/2

	if x < ToolbarPadding {
		x = ToolbarPadding
	}
	if x+size.Width > surfaceWidth-ToolbarPadding {
		x = surfaceWidth - size.Width - ToolbarPadding
	}
	if y < ToolbarPadding {
		y = r.Bottom() + ToolbarGap
		below = true
	}
	return x, y, below
}

// SizeLabel renders the dimensions badge shown above a selected image.
func SizeLabel(box Box) string {
	return fmt.Sprintf("%d × %dpx", int(math.Round(box.Rect.Width)), int(math.Round(box.Rect.Height)))
}
