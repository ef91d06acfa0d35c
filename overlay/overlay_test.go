package overlay

import (
	"testing"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/resize"
)

type fakeSurface struct {
	destroyed bool
	bounds    Rect
	node      Rect
	err       error
	panics    bool
}

func (s *fakeSurface) Destroyed() bool { return s.destroyed }

func (s *fakeSurface) Bounds() (Rect, error) { return s.bounds, nil }

func (s *fakeSurface) NodeBounds(doc.Pos) (Rect, error) {
	if s.panics {
		panic("node view gone")
	}
	return s.node, s.err
}

func imageState(t *testing.T) command.State {
	t.Helper()
	s := command.NewState(doc.Parse(`<p>ab<img src="a.png">cd</p>`))
	return s.WithSelection(command.NodeSelection(doc.Pos{Offset: 2}))
}

func TestController_PublishesSelectedImage(t *testing.T) {
	surf := &fakeSurface{
		bounds: Rect{X: 100, Y: 50, Width: 800, Height: 600},
		node:   Rect{X: 140, Y: 90, Width: 200, Height: 100},
	}
	c := NewController(surf, Config{})
	var got []Box
	c.Subscribe(func(b Box) { got = append(got, b) })

	st := imageState(t)
	box := c.Update(st)
	img, _, _ := st.SelectedImage()
	want := Box{Visible: true, NodeID: img.ID, Pos: doc.Pos{Offset: 2}, Rect: Rect{X: 40, Y: 40, Width: 200, Height: 100}}
	if box != want {
		t.Fatalf("box=%+v, want %+v", box, want)
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("published=%v", got)
	}

	// Same state again publishes nothing new.
	c.Update(st)
	if len(got) != 1 {
		t.Fatalf("published %d times, want 1", len(got))
	}

	st = st.WithSelection(command.Cursor(doc.Pos{Offset: 1}))
	if b := c.Update(st); b.Visible {
		t.Fatalf("text selection box=%+v", b)
	}
	if len(got) != 2 || got[1].Visible {
		t.Fatalf("published=%v", got)
	}
}

func TestController_DegradesToNone(t *testing.T) {
	tests := []struct {
		name string
		surf Surface
	}{
		{"destroyed", &fakeSurface{destroyed: true}},
		{"accessor error", &fakeSurface{err: ErrUnavailable}},
		{"accessor panic", &fakeSurface{panics: true}},
		{"nil surface", nil},
	}
	for _, tt := range tests {
		c := NewController(tt.surf, Config{})
		c.current = Box{Visible: true, NodeID: "stale"}
		var published []Box
		c.Subscribe(func(b Box) { published = append(published, b) })

		box := c.Update(imageState(t))
		if box.Visible || c.Current().Visible {
			t.Fatalf("%s: box=%+v", tt.name, box)
		}
		if len(published) != 1 || published[0] != (Box{}) {
			t.Fatalf("%s: published=%v", tt.name, published)
		}
	}
}

func TestController_DetachAndUnsubscribe(t *testing.T) {
	surf := &fakeSurface{node: Rect{Width: 10, Height: 10}}
	c := NewController(surf, Config{})
	n := 0
	unsubscribe := c.Subscribe(func(Box) { n++ })
	c.Update(imageState(t))
	if n != 1 {
		t.Fatalf("notifications=%d, want 1", n)
	}
	c.Detach()
	if c.Current().Visible || n != 2 {
		t.Fatalf("after detach current=%+v notifications=%d", c.Current(), n)
	}
	if c.Update(imageState(t)).Visible {
		t.Fatalf("detached controller published a box")
	}
	unsubscribe()
	c.current = Box{Visible: true}
	c.Update(imageState(t))
	if n != 2 {
		t.Fatalf("notified after unsubscribe")
	}
}

func TestController_MissingNodeIsNone(t *testing.T) {
	c := NewController(&fakeSurface{}, Config{})
	st := command.NewState(doc.Parse(`<p>ab</p>`))
	st.Selection = command.NodeSelection(doc.Pos{Offset: 1})
	if c.Update(st).Visible {
		t.Fatalf("node selection on text published a box")
	}
	if c.Update(command.State{}).Visible {
		t.Fatalf("empty state published a box")
	}
}

func TestHandles(t *testing.T) {
	box := Box{Visible: true, Rect: Rect{X: 10, Y: 20, Width: 100, Height: 50}}
	hs := Handles(box, 0)
	if len(hs) != 4 {
		t.Fatalf("handles=%d, want 4", len(hs))
	}
	se := hs[3]
	if se.Corner != resize.SE || se.Rect != (Rect{X: 104, Y: 64, Width: 12, Height: 12}) {
		t.Fatalf("se handle=%+v", se)
	}
	if c, ok := HitHandle(box, 10, 20, DefaultHandleSize); !ok || c != resize.NW {
		t.Fatalf("HitHandle nw=%v,%v", c, ok)
	}
	if c, ok := HitHandle(box, 111, 21, DefaultHandleSize); !ok || c != resize.NE {
		t.Fatalf("HitHandle ne=%v,%v", c, ok)
	}
	if _, ok := HitHandle(box, 60, 45, DefaultHandleSize); ok {
		t.Fatalf("HitHandle hit in the middle")
	}
	if Handles(Box{}, 12) != nil {
		t.Fatalf("hidden box has handles")
	}
}

func TestToolbarPosition(t *testing.T) {
	tests := []struct {
		name      string
		rect      Rect
		surface   float64
		wantX     float64
		wantY     float64
		wantBelow bool
	}{
		{"centred above", Rect{X: 300, Y: 300, Width: 200, Height: 100}, 1000, 170, 172, false},
		{"clamped left", Rect{X: 0, Y: 300, Width: 100, Height: 100}, 1000, 10, 172, false},
		{"clamped right", Rect{X: 900, Y: 300, Width: 100, Height: 100}, 1000, 530, 172, false},
		{"flipped below", Rect{X: 300, Y: 50, Width: 200, Height: 100}, 1000, 170, 158, true},
	}
	for _, tt := range tests {
		x, y, below := ToolbarPosition(Box{Visible: true, Rect: tt.rect}, tt.surface, DefaultToolbarSize)
		if x != tt.wantX || y != tt.wantY || below != tt.wantBelow {
			t.Fatalf("%s: got=(%v,%v,%v), want (%v,%v,%v)", tt.name, x, y, below, tt.wantX, tt.wantY, tt.wantBelow)
		}
	}
}

func TestSizeLabel(t *testing.T) {
	box := Box{Visible: true, Rect: Rect{Width: 300, Height: 149.6}}
	if got, want := SizeLabel(box), "300 × 150px"; got != want {
		t.Fatalf("SizeLabel=%q, want %q", got, want)
	}
}
