package overlay

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
)

// ErrUnavailable is returned by surfaces that cannot answer a layout query,
// typically because they are being torn down.
var ErrUnavailable = errors.New("overlay: surface unavailable")

// Surface is the editing surface the overlay measures. Implementations may
// be mid-teardown at any call and report that through Destroyed or
// ErrUnavailable.
type Surface interface {
	Destroyed() bool
	// Bounds returns the surface rectangle in the same coordinate space as
	// NodeBounds.
	Bounds() (Rect, error)
	// NodeBounds returns the rectangle of the inline node starting at p.
	NodeBounds(p doc.Pos) (Rect, error)
}

// Box is the published overlay state. When Visible is false nothing should
// be drawn and the remaining fields are zero. Rect is relative to the
// surface bounds.
type Box struct {
	Visible bool
	NodeID  string
	Pos     doc.Pos
	Rect    Rect
}

// Config configures a Controller.
type Config struct {
	// Logger receives debug records for degraded measurements. Nil
	// disables logging.
	Logger *zap.Logger
}

// Controller decides, on every document or selection event, whether the
// selection is exactly one image and publishes that image's box.
type Controller struct {
	surface  Surface
	log      *zap.Logger
	current  Box
	detached bool

	nextSub int
	subs    map[int]func(Box)
}

// NewController returns a controller measuring surface.
func NewController(surface Surface, cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		surface: surface,
		log:     log.Named("overlay"),
		subs:    make(map[int]func(Box)),
	}
}

// Update re-evaluates st and publishes the resulting box. Any failure to
// measure publishes "none" before Update returns.
func (c *Controller) Update(st command.State) Box {
	box, err := c.measure(st)
	if err != nil {
		c.log.Debug("image box unavailable", zap.Error(err))
		box = Box{}
	}
	c.publish(box)
	return box
}

// Current returns the last published box.
func (c *Controller) Current() Box { return c.current }

// Subscribe registers fn to receive every change of the published box and
// returns a function that removes it.
func (c *Controller) Subscribe(fn func(Box)) (unsubscribe func()) {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// Detach disconnects the controller from its surface and publishes "none".
// Later updates keep publishing "none".
func (c *Controller) Detach() {
	c.detached = true
	c.surface = nil
	c.publish(Box{})
}

func (c *Controller) measure(st command.State) (box Box, err error) {
	defer func() {
		if r := recover(); r != nil {
			box, err = Box{}, fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()

	if st.Doc == nil {
		return Box{}, nil
	}
	img, pos, ok := st.SelectedImage()
	if !ok {
		return Box{}, nil
	}
	if c.detached || c.surface == nil || c.surface.Destroyed() {
		return Box{}, ErrUnavailable
	}
	outer, err := c.surface.Bounds()
	if err != nil {
		return Box{}, fmt.Errorf("surface bounds: %w", err)
	}
	r, err := c.surface.NodeBounds(pos)
	if err != nil {
		return Box{}, fmt.Errorf("image %s bounds: %w", img.ID, err)
	}
	return Box{
		Visible: true,
		NodeID:  img.ID,
		Pos:     pos,
		Rect:    Rect{X: r.X - outer.X, Y: r.Y - outer.Y, Width: r.Width, Height: r.Height},
	}, nil
}

func (c *Controller) publish(box Box) {
	if box == c.current {
		return
	}
	c.current = box
	for _, fn := range c.subs {
		fn(box)
	}
}
