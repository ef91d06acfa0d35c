package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/overlay"
	"github.com/iw2rmb/tincture/resize"
)

var (
	ErrDestroyed  = errors.New("editor: destroyed")
	ErrTargetGone = errors.New("editor: resize target is no longer selected")
)

// Editor owns the editing state of one document. It is not safe for
// concurrent use; hosts call it from their event loop.
type Editor struct {
	cfg Config
	log *zap.Logger

	state   command.State
	version uint64

	overlay *overlay.Controller
	resize  *resize.Interaction

	preview   resize.Size
	previewID string

	destroyed bool
}

// New returns an editor holding cfg.Content.
func New(cfg Config) *Editor {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.HandleSize <= 0 {
		cfg.HandleSize = overlay.DefaultHandleSize
	}
	e := &Editor{cfg: cfg, log: log}
	e.overlay = overlay.NewController(cfg.Surface, overlay.Config{Logger: log})
	if cfg.OnImageBox != nil {
		e.overlay.Subscribe(cfg.OnImageBox)
	}
	e.resize = resize.New(resize.Config{
		MinWidth:   cfg.MinWidth,
		MaxWidth:   cfg.MaxWidth,
		Frames:     cfg.Frames,
		Suppressor: cfg.Suppressor,
		Preview:    e.applyPreview,
		Commit:     e.commitWidth,
		OnAbort:    e.resizeAborted,
		Logger:     log,
	})
	e.state = e.newState(cfg.Content)
	e.sync()
	return e
}

func (e *Editor) newState(markup string) command.State {
	if e.cfg.Sanitize {
		markup = doc.Sanitize(markup)
	}
	root, warnings := doc.ParseWithWarnings(markup)
	for _, w := range warnings {
		e.log.Debug("markup degraded", zap.Stringer("warning", w))
	}
	s := command.NewState(root)
	if e.cfg.HistoryLimit > 0 {
		s.History = command.NewHistory(e.cfg.HistoryLimit)
	}
	return s
}

// State returns the current editing state.
func (e *Editor) State() command.State { return e.state }

// Version increases with every content mutation.
func (e *Editor) Version() uint64 { return e.version }

// HTML serializes the current document.
func (e *Editor) HTML() string { return doc.Serialize(e.state.Doc) }

// ImageBox returns the published box of the selected image.
func (e *Editor) ImageBox() overlay.Box { return e.overlay.Current() }

// Dragging reports whether a resize handle is being dragged.
func (e *Editor) Dragging() bool { return e.resize.Phase() != resize.Idle }

// Preview returns the uncommitted size of the image being resized.
func (e *Editor) Preview() (id string, size resize.Size, ok bool) {
	if e.previewID == "" {
		return "", resize.Size{}, false
	}
	return e.previewID, e.preview, true
}

// Exec runs c against the current state. Errors wrap command.ErrNoOp when
// nothing changed.
func (e *Editor) Exec(c command.Command) error {
	if e.destroyed {
		return ErrDestroyed
	}
	next, err := c.Execute(e.state)
	if err != nil {
		e.log.Debug("command not applied", zap.String("command", c.Name()), zap.Error(err))
		return err
	}
	e.apply(next)
	return nil
}

// ExecName looks c up by name and runs it.
func (e *Editor) ExecName(name string, args ...string) error {
	c, err := command.Lookup(name, args...)
	if err != nil {
		return err
	}
	return e.Exec(c)
}

// Can reports whether c is applicable right now.
func (e *Editor) Can(c command.Command) bool {
	return !e.destroyed && c.IsApplicable(e.state)
}

// Active reports whether c's formatting is active at the selection.
func (e *Editor) Active(c command.Command) bool {
	return !e.destroyed && c.IsActive(e.state)
}

// SetSelection moves the selection.
func (e *Editor) SetSelection(sel command.Selection) {
	if e.destroyed {
		return
	}
	e.apply(e.state.WithSelection(sel))
}

// SetContent replaces the document and clears the history. Markup that
// does not parse cleanly is degraded, never rejected.
func (e *Editor) SetContent(markup string) error {
	if e.destroyed {
		return ErrDestroyed
	}
	e.resize.Abort(resize.AbortRequested)
	prev := e.state.Doc
	e.state = e.newState(markup)
	if !doc.Equal(prev, e.state.Doc) {
		e.version++
		e.notifyChange()
	}
	e.sync()
	return nil
}

// InsertImage inserts an image at the selection and selects it.
func (e *Editor) InsertImage(src string) error {
	return e.Exec(command.InsertImage(src))
}

// Refresh re-measures the selected image. Hosts call it after their layout
// changes without a state change.
func (e *Editor) Refresh() {
	if e.destroyed {
		return
	}
	e.overlay.Update(e.state)
}

func (e *Editor) apply(next command.State) {
	prev := e.state
	e.state = next
	switch {
	case next.Doc != prev.Doc:
		e.version++
		e.notifyChange()
	case next.Selection != prev.Selection:
		if e.cfg.OnSelectionChange != nil {
			e.cfg.OnSelectionChange(SelectionEvent{Version: e.version, Selection: next.Selection})
		}
	}
	e.sync()
}

func (e *Editor) notifyChange() {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(buildChangeEvent(e.version, e.state))
	}
}

// sync runs on every document or selection event.
func (e *Editor) sync() {
	box := e.overlay.Update(e.state)
	img, _, ok := e.state.SelectedImage()
	id := ""
	if ok {
		id = img.ID
	}
	e.resize.Observe(id, ok)
	if !box.Visible && e.resize.Phase() == resize.Dragging {
		e.resize.Abort(resize.AbortSelectionLost)
	}
}

// PointerDown starts a resize when (x, y) hits a handle of the selected
// image. Coordinates are surface pixels. It reports whether the event was
// consumed.
func (e *Editor) PointerDown(x, y float64) bool {
	if e.destroyed {
		return false
	}
	box := e.overlay.Current()
	corner, ok := overlay.HitHandle(box, x, y, e.cfg.HandleSize)
	if !ok {
		return false
	}
	t := resize.Target{ID: box.NodeID, Pos: box.Pos, Width: box.Rect.Width, Height: box.Rect.Height}
	if err := e.resize.Begin(t, corner, x, y); err != nil {
		e.log.Debug("resize not started", zap.Error(err))
		return false
	}
	return true
}

// PointerMove feeds a drag. It reports whether a drag consumed the event.
func (e *Editor) PointerMove(x, y float64) bool {
	return e.resize.Move(x, y) == nil
}

// PointerUp ends a drag, committing its final width when the pointer
// moved.
func (e *Editor) PointerUp(x, y float64) bool {
	if e.resize.Phase() != resize.Dragging {
		return false
	}
	if _, err := e.resize.End(); err != nil {
		e.log.Debug("resize not committed", zap.Error(err))
	}
	return true
}

// CancelDrag aborts a drag without committing.
func (e *Editor) CancelDrag() { e.resize.Abort(resize.AbortRequested) }

// Destroy tears the editor down. A drag in progress is discarded and the
// image box is withdrawn.
func (e *Editor) Destroy() {
	if e.destroyed {
		return
	}
	e.resize.Destroy()
	e.overlay.Detach()
	e.destroyed = true
}

func (e *Editor) applyPreview(t resize.Target, size resize.Size) {
	e.previewID, e.preview = t.ID, size
	if e.cfg.OnPreview != nil {
		e.cfg.OnPreview(t, size)
	}
}

func (e *Editor) clearPreview() { e.previewID, e.preview = "", resize.Size{} }

func (e *Editor) commitWidth(t resize.Target, width int) error {
	e.clearPreview()
	img, _, ok := e.state.SelectedImage()
	if !ok || img.ID != t.ID {
		return ErrTargetGone
	}
	if err := e.Exec(command.SetImageWidth(width)); err != nil && !errors.Is(err, command.ErrNoOp) {
		return fmt.Errorf("set width %d: %w", width, err)
	}
	return nil
}

func (e *Editor) resizeAborted(t resize.Target, reason resize.AbortReason) {
	e.clearPreview()
	e.log.Debug("resize aborted", zap.String("image", t.ID), zap.Stringer("reason", reason))
}
