package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/overlay"
	"github.com/iw2rmb/tincture/resize"
)

type fakeSurface struct {
	destroyed bool
	node      overlay.Rect
}

func (s *fakeSurface) Destroyed() bool { return s.destroyed }

func (s *fakeSurface) Bounds() (overlay.Rect, error) {
	return overlay.Rect{Width: 800, Height: 600}, nil
}

func (s *fakeSurface) NodeBounds(doc.Pos) (overlay.Rect, error) { return s.node, nil }

type countingSuppressor struct {
	active   string
	acquired int
	released int
}

func (c *countingSuppressor) Suppress(cursor string) func() {
	c.active = cursor
	c.acquired++
	return func() {
		c.active = ""
		c.released++
	}
}

type harness struct {
	ed      *Editor
	surf    *fakeSurface
	supp    *countingSuppressor
	changes []ChangeEvent
	boxes   []overlay.Box
}

func newHarness(t *testing.T, content string, frames resize.FrameScheduler) *harness {
	t.Helper()
	h := &harness{
		surf: &fakeSurface{node: overlay.Rect{Width: 200, Height: 100}},
		supp: &countingSuppressor{},
	}
	h.ed = New(Config{
		Content:    content,
		Surface:    h.surf,
		Frames:     frames,
		Suppressor: h.supp,
		OnChange:   func(ev ChangeEvent) { h.changes = append(h.changes, ev) },
		OnImageBox: func(b overlay.Box) { h.boxes = append(h.boxes, b) },
	})
	return h
}

// withImage inserts an image after "ab" and clears the recorded events.
func (h *harness) withImage(t *testing.T) {
	t.Helper()
	h.ed.SetSelection(command.Cursor(doc.Pos{Offset: 2}))
	if err := h.ed.InsertImage("cat.png"); err != nil {
		t.Fatalf("InsertImage: %v", err)
	}
	if box := h.ed.ImageBox(); !box.Visible || box.Rect.Width != 200 || box.Rect.Height != 100 {
		t.Fatalf("box=%+v, want visible 200x100", box)
	}
	h.changes = nil
}

func TestEditor_ResizeCommitsOnce(t *testing.T) {
	h := newHarness(t, "<p>abcd</p>", nil)
	h.withImage(t)

	if !h.ed.PointerDown(200, 100) {
		t.Fatalf("PointerDown on the south-east handle was not consumed")
	}
	if h.supp.active != "se-resize" {
		t.Fatalf("cursor=%q, want %q", h.supp.active, "se-resize")
	}
	h.ed.PointerMove(250, 100)
	h.ed.PointerMove(300, 100)
	if _, size, ok := h.ed.Preview(); !ok || size.Width != 300 || size.Height != 150 {
		t.Fatalf("preview=%+v ok=%v, want 300x150", size, ok)
	}
	if len(h.changes) != 0 {
		t.Fatalf("changes during drag=%d, want 0", len(h.changes))
	}

	if !h.ed.PointerUp(300, 100) {
		t.Fatalf("PointerUp not consumed")
	}
	if len(h.changes) != 1 {
		t.Fatalf("changes=%d, want 1", len(h.changes))
	}
	if got := h.changes[0].Markup; !strings.Contains(got, `width="300"`) {
		t.Fatalf("markup=%q, want width 300", got)
	}
	if h.supp.released != 1 || h.supp.active != "" {
		t.Fatalf("suppressor acquired=%d released=%d active=%q", h.supp.acquired, h.supp.released, h.supp.active)
	}
	if h.ed.Dragging() {
		t.Fatalf("still dragging after PointerUp")
	}
	if _, _, ok := h.ed.Preview(); ok {
		t.Fatalf("preview survived the commit")
	}
	// The image stays selected with the same identity.
	img, _, ok := h.ed.State().SelectedImage()
	if !ok || img.Image.Width != 300 || img.ID != h.ed.ImageBox().NodeID {
		t.Fatalf("selected=%+v ok=%v box=%+v", img, ok, h.ed.ImageBox())
	}
}

func TestEditor_ClickWithoutMoveDoesNotCommit(t *testing.T) {
	h := newHarness(t, "<p>abcd</p>", nil)
	h.withImage(t)

	h.ed.PointerDown(0, 0)
	h.ed.PointerUp(0, 0)
	if len(h.changes) != 0 {
		t.Fatalf("changes=%d, want 0", len(h.changes))
	}
	if h.supp.released != 1 {
		t.Fatalf("released=%d, want 1", h.supp.released)
	}
}

func TestEditor_PointerDownOutsideHandles(t *testing.T) {
	h := newHarness(t, "<p>abcd</p>", nil)
	h.withImage(t)

	if h.ed.PointerDown(100, 50) {
		t.Fatalf("PointerDown in the image body was consumed")
	}
	if h.ed.Dragging() || h.supp.acquired != 0 {
		t.Fatalf("drag started outside a handle")
	}
}

func TestEditor_DestroyMidDrag(t *testing.T) {
	frames := &resize.ManualFrames{}
	h := newHarness(t, "<p>abcd</p>", frames)
	h.withImage(t)
	before := h.ed.HTML()

	h.ed.PointerDown(200, 100)
	h.ed.PointerMove(320, 100)
	if frames.Pending() != 1 {
		t.Fatalf("pending=%d, want 1", frames.Pending())
	}
	h.ed.Destroy()

	if n := frames.Flush(); n != 0 {
		t.Fatalf("frames run after destroy=%d, want 0", n)
	}
	if h.ed.PointerUp(320, 100) {
		t.Fatalf("PointerUp consumed after destroy")
	}
	if len(h.changes) != 0 || h.ed.HTML() != before {
		t.Fatalf("document changed after destroy: %q", h.ed.HTML())
	}
	if h.supp.released != 1 {
		t.Fatalf("released=%d, want 1", h.supp.released)
	}
	if box := h.ed.ImageBox(); box.Visible {
		t.Fatalf("box still visible after destroy")
	}
	if err := h.ed.Exec(command.ToggleBold()); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("Exec err=%v, want ErrDestroyed", err)
	}
	h.ed.Destroy()
}

func TestEditor_SelectionLossAbortsDrag(t *testing.T) {
	h := newHarness(t, "<p>abcd</p>", nil)
	h.withImage(t)

	h.ed.PointerDown(200, 100)
	h.ed.PointerMove(300, 100)
	h.ed.SetSelection(command.Cursor(doc.Pos{}))

	if h.ed.Dragging() {
		t.Fatalf("drag survived selection loss")
	}
	if h.ed.PointerUp(300, 100) {
		t.Fatalf("PointerUp consumed after abort")
	}
	if len(h.changes) != 0 {
		t.Fatalf("changes=%d, want 0", len(h.changes))
	}
	if h.supp.released != 1 {
		t.Fatalf("released=%d, want 1", h.supp.released)
	}
	if last := h.boxes[len(h.boxes)-1]; last.Visible {
		t.Fatalf("last published box=%+v, want none", last)
	}
}

func TestEditor_CancelDrag(t *testing.T) {
	h := newHarness(t, "<p>abcd</p>", nil)
	h.withImage(t)

	h.ed.PointerDown(0, 100)
	h.ed.PointerMove(-80, 100)
	h.ed.CancelDrag()
	h.ed.PointerUp(-80, 100)
	if len(h.changes) != 0 {
		t.Fatalf("changes=%d, want 0", len(h.changes))
	}
}

func TestEditor_SelectionEvents(t *testing.T) {
	var sels []SelectionEvent
	var changes []ChangeEvent
	ed := New(Config{
		Content:           "<p>ab</p>",
		OnChange:          func(ev ChangeEvent) { changes = append(changes, ev) },
		OnSelectionChange: func(ev SelectionEvent) { sels = append(sels, ev) },
	})

	ed.SetSelection(command.Cursor(doc.Pos{Offset: 1}))
	ed.SetSelection(command.Cursor(doc.Pos{Offset: 1}))
	if len(sels) != 1 || len(changes) != 0 {
		t.Fatalf("selection events=%d changes=%d, want 1 and 0", len(sels), len(changes))
	}

	if err := ed.Exec(command.InsertText("X")); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if len(changes) != 1 || len(sels) != 1 {
		t.Fatalf("selection events=%d changes=%d, want 1 and 1", len(sels), len(changes))
	}
	if got, want := changes[0].Markup, "<p>aXb</p>"; got != want {
		t.Fatalf("markup=%q, want %q", got, want)
	}
	if changes[0].Version != ed.Version() || ed.Version() != 1 {
		t.Fatalf("version=%d event=%d, want 1", ed.Version(), changes[0].Version)
	}
}

func TestEditor_ExecName(t *testing.T) {
	ed := New(Config{Content: "<p>ab</p>"})
	ed.SetSelection(command.TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))

	if err := ed.ExecName("toggleBold"); err != nil {
		t.Fatalf("toggleBold: %v", err)
	}
	if got, want := ed.HTML(), "<p><strong>ab</strong></p>"; got != want {
		t.Fatalf("html=%q, want %q", got, want)
	}
	if !ed.Active(command.ToggleBold()) {
		t.Fatalf("bold not active after toggle")
	}
	if err := ed.ExecName("nope"); !errors.Is(err, command.ErrUnknownCommand) {
		t.Fatalf("err=%v, want ErrUnknownCommand", err)
	}
	if err := ed.ExecName("setImageAlign", "left"); !errors.Is(err, command.ErrNoOp) {
		t.Fatalf("err=%v, want ErrNoOp", err)
	}
}

func TestEditor_SetContent(t *testing.T) {
	var changes []ChangeEvent
	ed := New(Config{
		Content:  "<p>ab</p>",
		OnChange: func(ev ChangeEvent) { changes = append(changes, ev) },
	})
	if err := ed.Exec(command.InsertText("x")); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	changes = nil

	if err := ed.SetContent("<h1>Title</h1>"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if len(changes) != 1 || changes[0].Markup != "<h1>Title</h1>" {
		t.Fatalf("changes=%+v", changes)
	}
	if ed.Can(command.Undo()) {
		t.Fatalf("history survived SetContent")
	}

	// Equal content is not a change.
	if err := ed.SetContent("<h1>Title</h1>"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes=%d, want 1", len(changes))
	}
}

func TestEditor_SanitizeDropsScripts(t *testing.T) {
	ed := New(Config{Content: `<p onclick="x()">ok</p><script>alert(1)</script>`, Sanitize: true})
	if got, want := ed.HTML(), "<p>ok</p>"; got != want {
		t.Fatalf("html=%q, want %q", got, want)
	}
}
