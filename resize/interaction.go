package resize

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/doc"
)

var (
	ErrBusy          = errors.New("resize: a drag is already in progress")
	ErrNotDragging   = errors.New("resize: no drag in progress")
	ErrInvalidTarget = errors.New("resize: invalid target")
	ErrDestroyed     = errors.New("resize: interaction destroyed")
)

// Phase is the state of an Interaction.
type Phase uint8

const (
	Idle Phase = iota
	Dragging
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// AbortReason says why a drag ended without a commit.
type AbortReason uint8

const (
	AbortRequested AbortReason = iota
	AbortSelectionLost
	AbortDestroyed
)

func (r AbortReason) String() string {
	switch r {
	case AbortRequested:
		return "requested"
	case AbortSelectionLost:
		return "selection lost"
	case AbortDestroyed:
		return "surface destroyed"
	default:
		return "unknown"
	}
}

// Target is the image being resized, with its rendered size at drag start.
type Target struct {
	ID     string
	Pos    doc.Pos
	Width  float64
	Height float64
}

// Session is the state of one drag.
type Session struct {
	Target Target
	Corner Corner
	StartX float64
	StartY float64
	// Size is the most recent computed size; Moved reports whether any
	// pointer move has been seen.
	Size  Size
	Moved bool
}

type (
	// PreviewFunc shows an uncommitted size.
	PreviewFunc func(t Target, size Size)
	// CommitFunc persists the final width, typically by executing
	// command.SetImageWidth.
	CommitFunc func(t Target, width int) error
)

// Config configures an Interaction. Zero values select the defaults.
type Config struct {
	MinWidth int
	// MaxWidth bounds the drag when positive.
	MaxWidth int

	Frames     FrameScheduler
	Suppressor Suppressor
	Preview    PreviewFunc
	Commit     CommitFunc
	// OnAbort, when set, is told about every drag that ends without a
	// commit.
	OnAbort func(t Target, reason AbortReason)
	Logger  *zap.Logger
}

// Interaction is the Idle → Dragging → Committing → Idle state machine.
// It is not safe for concurrent use; hosts drive it from their event loop.
type Interaction struct {
	cfg Config
	log *zap.Logger

	phase     Phase
	session   Session
	guard     *guard
	pending   bool
	cancel    func()
	destroyed bool
}

// New returns an idle interaction.
func New(cfg Config) *Interaction {
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = DefaultMinWidth
	}
	if cfg.MaxWidth < 0 {
		cfg.MaxWidth = 0
	}
	if cfg.Frames == nil {
		cfg.Frames = Immediate{}
	}
	if cfg.Suppressor == nil {
		cfg.Suppressor = noSuppress{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Interaction{cfg: cfg, log: log.Named("resize")}
}

// Phase returns the current state.
func (i *Interaction) Phase() Phase { return i.phase }

// Session returns the active drag, if any.
func (i *Interaction) Session() (Session, bool) {
	if i.phase == Idle {
		return Session{}, false
	}
	return i.session, true
}

// Begin starts dragging corner c of t from pointer position (x, y).
func (i *Interaction) Begin(t Target, c Corner, x, y float64) error {
	if i.destroyed {
		return ErrDestroyed
	}
	if i.phase != Idle {
		return ErrBusy
	}
	if t.ID == "" || !validLength(t.Width) || !validLength(t.Height) || int(c) >= len(cornerNames) {
		return fmt.Errorf("%w: %q %vx%v", ErrInvalidTarget, t.ID, t.Width, t.Height)
	}
	i.session = Session{
		Target: t,
		Corner: c,
		StartX: x,
		StartY: y,
		Size:   Size{Width: int(t.Width), Height: t.Height},
	}
	i.guard = acquire(i.cfg.Suppressor, c.Cursor())
	i.phase = Dragging
	i.log.Debug("drag started",
		zap.String("image", t.ID),
		zap.Stringer("corner", c),
		zap.Float64("width", t.Width),
		zap.Float64("height", t.Height))
	return nil
}

// Move updates the drag for pointer position (x, y). Vertical movement is
// ignored; the preview is applied at most once per frame with the latest
// size.
func (i *Interaction) Move(x, y float64) error {
	if i.phase != Dragging {
		return ErrNotDragging
	}
	s := &i.session
	s.Size = Compute(s.Target.Width, s.Target.Height, s.Corner, x-s.StartX, i.cfg.MinWidth, i.cfg.MaxWidth)
	s.Moved = true
	if !i.pending {
		i.pending = true
		cancel := i.cfg.Frames.RequestFrame(i.frame)
		if i.pending {
			i.cancel = cancel
		}
	}
	return nil
}

func (i *Interaction) frame() {
	i.pending, i.cancel = false, nil
	if i.phase != Dragging || i.cfg.Preview == nil {
		return
	}
	i.cfg.Preview(i.session.Target, i.session.Size)
}

// End finishes the drag. When the pointer moved, the last width is passed
// to the commit func exactly once and committed reports true.
func (i *Interaction) End() (committed bool, err error) {
	if i.phase != Dragging {
		return false, ErrNotDragging
	}
	s := i.session
	i.phase = Committing
	defer i.reset()

	if !s.Moved || i.cfg.Commit == nil {
		i.log.Debug("drag ended without movement", zap.String("image", s.Target.ID))
		return false, nil
	}
	if err := i.cfg.Commit(s.Target, s.Size.Width); err != nil {
		i.log.Debug("commit failed", zap.String("image", s.Target.ID), zap.Error(err))
		return false, fmt.Errorf("resize: commit %s: %w", s.Target.ID, err)
	}
	i.log.Debug("drag committed", zap.String("image", s.Target.ID), zap.Int("width", s.Size.Width))
	return true, nil
}

// Abort discards the drag without committing. It does nothing when idle.
func (i *Interaction) Abort(reason AbortReason) {
	if i.phase != Dragging {
		return
	}
	t := i.session.Target
	i.reset()
	i.log.Debug("drag aborted", zap.String("image", t.ID), zap.Stringer("reason", reason))
	if i.cfg.OnAbort != nil {
		i.cfg.OnAbort(t, reason)
	}
}

// Observe reports the image currently selected as a node (ok false when
// none). A drag whose target is no longer selected is aborted.
func (i *Interaction) Observe(selectedID string, ok bool) {
	if i.phase != Dragging {
		return
	}
	if !ok || selectedID != i.session.Target.ID {
		i.Abort(AbortSelectionLost)
	}
}

// Destroy aborts any drag and makes the interaction unusable. It is safe
// to call more than once.
func (i *Interaction) Destroy() {
	if i.destroyed {
		return
	}
	i.Abort(AbortDestroyed)
	i.destroyed = true
	i.reset()
}

func (i *Interaction) reset() {
	if i.cancel != nil {
		i.cancel()
	}
	i.pending, i.cancel = false, nil
	i.guard.Release()
	i.guard = nil
	i.session = Session{}
	i.phase = Idle
}

// validLength rejects non-positive, NaN and infinite sizes.
func validLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
