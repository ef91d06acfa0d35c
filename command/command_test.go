package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/iw2rmb/tincture/doc"
)

func mustExec(t *testing.T, s State, c Command) State {
	t.Helper()
	next, err := c.Execute(s)
	if err != nil {
		t.Fatalf("%s: %v", c.Name(), err)
	}
	return next
}

func stateFor(markup string, sel Selection) State {
	s := NewState(doc.Parse(markup))
	return s.WithSelection(sel)
}

func TestToggleMarks_Symmetric(t *testing.T) {
	toggles := []Command{ToggleBold(), ToggleItalic(), ToggleUnderline(), ToggleStrike()}
	inputs := []string{
		"<p>Hello world</p>",
		"<p><strong><em><u><s>Hello world</s></u></em></strong></p>",
	}
	sel := TextSelection(doc.Pos{Offset: 0}, doc.Pos{Offset: 5})
	for _, markup := range inputs {
		for _, c := range toggles {
			s := stateFor(markup, sel)
			once := mustExec(t, s, c)
			if doc.Equal(once.Doc, s.Doc) {
				t.Fatalf("%s on %q changed nothing", c.Name(), markup)
			}
			twice := mustExec(t, once, c)
			if !doc.Equal(twice.Doc, s.Doc) {
				t.Fatalf("%s twice on %q: %q", c.Name(), markup, doc.Serialize(twice.Doc))
			}
			if twice.Selection != s.Selection {
				t.Fatalf("selection=%v, want %v", twice.Selection, s.Selection)
			}
		}
	}
}

func TestToggleBold_ActiveState(t *testing.T) {
	s := stateFor("<p><strong>ab</strong>cd</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	if !ToggleBold().IsActive(s) {
		t.Fatalf("expected active over bold range")
	}
	s = s.WithSelection(TextSelection(doc.Pos{}, doc.Pos{Offset: 4}))
	if ToggleBold().IsActive(s) {
		t.Fatalf("expected inactive over mixed range")
	}
	next := mustExec(t, s, ToggleBold())
	if got, want := doc.Serialize(next.Doc), "<p><strong>abcd</strong></p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
}

func TestToggleBold_CursorUsesStoredMarks(t *testing.T) {
	s := stateFor("<p>ab</p>", Cursor(doc.Pos{Offset: 1}))
	s = mustExec(t, s, ToggleBold())
	if !s.HasStoredMarks || !s.StoredMarks.Has(doc.MarkBold) {
		t.Fatalf("stored=%v has=%v, want bold", s.StoredMarks, s.HasStoredMarks)
	}
	if !ToggleBold().IsActive(s) {
		t.Fatalf("expected active through stored marks")
	}
	s = mustExec(t, s, InsertText("X"))
	if got, want := doc.Serialize(s.Doc), "<p>a<strong>X</strong>b</p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if s.HasStoredMarks {
		t.Fatalf("stored marks should reset after insertion")
	}
	if got, want := s.Selection, Cursor(doc.Pos{Offset: 2}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestGradientAndColorCoexist(t *testing.T) {
	const g = "linear-gradient(90deg, #f00, #00f)"
	s := stateFor("<p>Hi there</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	s = mustExec(t, s, SetGradient(g))
	s = mustExec(t, s, SetColor("#fff"))

	marks := doc.MarksAt(s.Doc, doc.Pos{Offset: 1})
	if !marks.Has(doc.MarkGradient) || !marks.Has(doc.MarkColor) {
		t.Fatalf("marks=%v, want gradient and color", marks)
	}
	out := doc.Serialize(s.Doc)
	if !strings.Contains(out, `data-gradient="`+g+`"`) || !strings.Contains(out, "color:#fff;") {
		t.Fatalf("serialize=%q, want gradient attribute and color style", out)
	}
	if !SetColor("#fff").IsActive(s) || SetColor("#000").IsActive(s) {
		t.Fatalf("unexpected color active state")
	}

	s = mustExec(t, s, UnsetGradient())
	marks = doc.MarksAt(s.Doc, doc.Pos{Offset: 1})
	if marks.Has(doc.MarkGradient) || !marks.Has(doc.MarkColor) {
		t.Fatalf("marks=%v, want color only", marks)
	}
}

func TestSetMark_EmptyValueNotApplicable(t *testing.T) {
	s := stateFor("<p>ab</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	for _, c := range []Command{SetColor(" "), SetLink(""), SetFontSize(";")} {
		if c.IsApplicable(s) {
			t.Fatalf("%s applicable with empty value", c.Name())
		}
		if _, err := c.Execute(s); !errors.Is(err, ErrNotApplicable) {
			t.Fatalf("%s err=%v, want ErrNotApplicable", c.Name(), err)
		}
	}
}

func TestSetImageAlign_TextSelectionNotApplicable(t *testing.T) {
	s := stateFor(`<p>ab<img src="a.png"></p>`, TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	c := SetImageAlign(doc.ImageAlignLeft)
	if c.IsApplicable(s) {
		t.Fatalf("expected not applicable")
	}
	next, err := c.Execute(s)
	if !errors.Is(err, ErrNotApplicable) || !errors.Is(err, ErrNoOp) {
		t.Fatalf("err=%v, want ErrNotApplicable wrapping ErrNoOp", err)
	}
	if next.Doc != s.Doc {
		t.Fatalf("document changed")
	}
	if _, err := SetImageWidth(300).Execute(s); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("SetImageWidth err=%v, want ErrNotApplicable", err)
	}
}

func TestInsertImage_SelectsAndUpdates(t *testing.T) {
	s := stateFor("<p>ab</p>", Cursor(doc.Pos{Offset: 1}))
	s = mustExec(t, s, InsertImage("https://example.com/a.png"))

	img, at, ok := s.SelectedImage()
	if !ok {
		t.Fatalf("expected image selection, got %v", s.Selection)
	}
	if at != (doc.Pos{Offset: 1}) || img.Image.Align != doc.DefaultImageAlign {
		t.Fatalf("image at %v attrs %+v", at, img.Image)
	}
	id := img.ID

	s = mustExec(t, s, SetImageAlign(doc.ImageAlignRight))
	s = mustExec(t, s, SetImageWidth(300))
	if _, err := SetImageWidth(300).Execute(s); !errors.Is(err, ErrNoOp) {
		t.Fatalf("repeat width err=%v, want ErrNoOp", err)
	}

	img, _, _ = s.SelectedImage()
	if img.ID != id {
		t.Fatalf("image identity changed")
	}
	want := `<p>a<img src="https://example.com/a.png" width="300" style="width:300px;height:auto;" data-align="right">b</p>`
	if got := doc.Serialize(s.Doc); got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if !SetImageAlign(doc.ImageAlignRight).IsActive(s) {
		t.Fatalf("expected align active")
	}
}

func TestInsertImage_ReplacesSelection(t *testing.T) {
	s := stateFor("<p>abcd</p>", TextSelection(doc.Pos{Offset: 1}, doc.Pos{Offset: 3}))
	s = mustExec(t, s, InsertImage("a.png"))
	if got, want := doc.Serialize(s.Doc), `<p>a<img src="a.png" data-align="center">d</p>`; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if _, err := InsertImage("  ").Execute(s); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("err=%v, want ErrNotApplicable", err)
	}
}

func TestBlockCommands(t *testing.T) {
	s := stateFor("<p>a</p><p>b</p>", TextSelection(doc.Pos{}, doc.Pos{Block: 1, Offset: 1}))

	s = mustExec(t, s, ToggleHeading(2))
	if !ToggleHeading(2).IsActive(s) || ToggleHeading(1).IsActive(s) {
		t.Fatalf("unexpected heading active state")
	}
	s = mustExec(t, s, ToggleHeading(2))
	if !SetParagraph().IsActive(s) {
		t.Fatalf("expected paragraphs after second toggle")
	}

	s = mustExec(t, s, ToggleOrderedList())
	if got, want := doc.Serialize(s.Doc), "<ol><li><p>a</p></li><li><p>b</p></li></ol>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if !ToggleOrderedList().IsActive(s) || ToggleBulletList().IsActive(s) {
		t.Fatalf("unexpected list active state")
	}
	s = mustExec(t, s, ToggleOrderedList())

	s = mustExec(t, s, SetTextAlign(doc.TextAlignCenter))
	if !SetTextAlign(doc.TextAlignCenter).IsActive(s) {
		t.Fatalf("expected center active")
	}
	if _, err := SetTextAlign(doc.TextAlignCenter).Execute(s); !errors.Is(err, ErrNoOp) {
		t.Fatalf("err=%v, want ErrNoOp", err)
	}
	if got, want := doc.Serialize(s.Doc), `<p style="text-align:center;">a</p><p style="text-align:center;">b</p>`; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
}

func TestEditing_SplitAndDelete(t *testing.T) {
	s := stateFor("<p>abcd</p>", Cursor(doc.Pos{Offset: 2}))
	s = mustExec(t, s, SplitBlock())
	if got, want := doc.Serialize(s.Doc), "<p>ab</p><p>cd</p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if got, want := s.Selection, Cursor(doc.Pos{Block: 1}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}

	s = mustExec(t, s, DeleteBackward())
	if got, want := doc.Serialize(s.Doc), "<p>abcd</p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if got, want := s.Selection, Cursor(doc.Pos{Offset: 2}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}

	s = mustExec(t, s, DeleteForward())
	if got, want := doc.Serialize(s.Doc), "<p>abd</p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}

	s = s.WithSelection(Cursor(doc.Pos{}))
	if _, err := DeleteBackward().Execute(s); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("err=%v, want ErrNotApplicable", err)
	}
	s = s.WithSelection(Cursor(doc.EndPos(s.Doc)))
	if DeleteForward().IsApplicable(s) {
		t.Fatalf("expected DeleteForward not applicable at end")
	}
}

func TestInsertHorizontalRule(t *testing.T) {
	s := stateFor("<p>ab</p>", Cursor(doc.Pos{Offset: 1}))
	s = mustExec(t, s, InsertHorizontalRule())
	if got, want := doc.Serialize(s.Doc), "<p>a</p><hr><p>b</p>"; got != want {
		t.Fatalf("serialize=%q, want %q", got, want)
	}
	if got, want := s.Selection, Cursor(doc.Pos{Block: 1}); got != want {
		t.Fatalf("selection=%v, want %v", got, want)
	}
}

func TestUndoRedo(t *testing.T) {
	s := stateFor("<p>ab</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	if Undo().IsApplicable(s) {
		t.Fatalf("expected Undo not applicable")
	}
	if _, err := Redo().Execute(s); !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("err=%v, want ErrNotApplicable", err)
	}

	orig := s.Doc
	bold := mustExec(t, s, ToggleBold())
	undone := mustExec(t, bold, Undo())
	if undone.Doc != orig {
		t.Fatalf("undo did not restore the previous document")
	}
	if undone.Selection != s.Selection {
		t.Fatalf("selection=%v, want %v", undone.Selection, s.Selection)
	}
	redone := mustExec(t, undone, Redo())
	if redone.Doc != bold.Doc {
		t.Fatalf("redo did not restore the change")
	}
	if redone.History.CanRedo() {
		t.Fatalf("expected empty redo stack")
	}
}

func TestHistory_LimitAndIsolation(t *testing.T) {
	s := NewState(doc.Parse("<p>abc</p>"))
	s.History = NewHistory(2)
	s = s.WithSelection(Cursor(doc.Pos{Offset: 3}))
	for _, text := range []string{"x", "y", "z"} {
		s = mustExec(t, s, InsertText(text))
	}
	if undo, _ := s.History.Depth(); undo != 2 {
		t.Fatalf("undo depth=%d, want 2", undo)
	}

	// Executing two different commands on the same state must not let one
	// branch see the other's history.
	a := mustExec(t, s, InsertText("1"))
	b := mustExec(t, s, InsertText("2"))
	a = mustExec(t, a, Undo())
	b = mustExec(t, b, Undo())
	if got, want := doc.Serialize(a.Doc), "<p>abcxyz</p>"; got != want {
		t.Fatalf("branch a=%q, want %q", got, want)
	}
	if got, want := doc.Serialize(b.Doc), "<p>abcxyz</p>"; got != want {
		t.Fatalf("branch b=%q, want %q", got, want)
	}
}

func TestCommandDocumentsRoundTrip(t *testing.T) {
	s := stateFor("<p>Hello world</p><p>second line</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 5}))
	steps := []Command{
		ToggleBold(),
		SetGradient("linear-gradient(90deg, #f00, #00f)"),
		SetColor("#fff"),
		SetFontFamily("Georgia, serif"),
		SetFontSize("18px"),
		SetLink("https://example.com/"),
		ToggleItalic(),
		ToggleHeading(1),
		SetTextAlign(doc.TextAlignRight),
	}
	for _, c := range steps {
		s = mustExec(t, s, c)
	}
	s = s.WithSelection(Cursor(doc.Pos{Block: 1, Offset: 6}))
	s = mustExec(t, s, InsertImage("pic.png"))
	s = mustExec(t, s, SetImageWidth(240))
	s = mustExec(t, s, SetImageAlign(doc.ImageAlignInline))
	s = s.WithSelection(TextSelection(doc.Pos{Block: 1}, doc.Pos{Block: 1, Offset: 3}))
	s = mustExec(t, s, ToggleStrike())
	s = mustExec(t, s, ToggleUnderline())
	s = mustExec(t, s, ToggleBlockquote())
	s = s.WithSelection(Cursor(doc.Pos{Block: 1, Offset: 3}))
	s = mustExec(t, s, InsertHardBreak())
	s = mustExec(t, s, InsertHorizontalRule())
	s = mustExec(t, s, ToggleBulletList())

	markup := doc.Serialize(s.Doc)
	back, warnings := doc.ParseWithWarnings(markup)
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v for %s", warnings, markup)
	}
	if !doc.Equal(back, s.Doc) {
		t.Fatalf("round trip mismatch:\n%s\n%s", markup, doc.Serialize(back))
	}
}

func TestRuleOnlyDocumentIsEditable(t *testing.T) {
	s := NewState(doc.Parse("<hr>"))
	for _, c := range []Command{InsertText("x"), SplitBlock(), InsertImage("a.png")} {
		if !c.IsApplicable(s) {
			t.Fatalf("%s not applicable", c.Name())
		}
		if _, err := c.Execute(s); err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
	}
	s = mustExec(t, s, InsertText("x"))
	if got, want := doc.Serialize(s.Doc), "<hr><p>x</p>"; got != want {
		t.Fatalf("markup=%q, want %q", got, want)
	}
}

func TestCommandStyleValuesRoundTrip(t *testing.T) {
	s := stateFor("<p>abcdef</p>", TextSelection(doc.Pos{}, doc.Pos{Offset: 2}))
	s = mustExec(t, s, SetFontFamily("Times  New Roman"))
	s = s.WithSelection(TextSelection(doc.Pos{Offset: 2}, doc.Pos{Offset: 4}))
	s = mustExec(t, s, SetColor("rgb(1,  2, 3)"))
	s = s.WithSelection(TextSelection(doc.Pos{Offset: 4}, doc.Pos{Offset: 6}))
	s = mustExec(t, s, SetFontSize("12px /* big */"))
	s = s.WithSelection(Cursor(doc.Pos{Offset: 6}))
	s = mustExec(t, s, InsertText("a\fb"))

	markup := doc.Serialize(s.Doc)
	if back := doc.Parse(markup); !doc.Equal(back, s.Doc) {
		t.Fatalf("round trip mismatch:\n%s\n%s", markup, doc.Serialize(back))
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup("setImageWidth", "300px")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.Name() != "setImageWidth" {
		t.Fatalf("name=%q", c.Name())
	}

	s := stateFor(`<p><img src="a.png"></p>`, NodeSelection(doc.Pos{}))
	s = mustExec(t, s, c)
	if img, _, _ := s.SelectedImage(); img.Image.Width != 300 {
		t.Fatalf("width=%d, want 300", img.Image.Width)
	}

	g, err := Lookup("setGradient", "linear-gradient(90deg,", "#f00,", "#00f)")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if g.Name() != "setGradient" {
		t.Fatalf("name=%q", g.Name())
	}

	cases := []struct {
		name string
		args []string
		want error
	}{
		{name: "nope", want: ErrUnknownCommand},
		{name: "setImageWidth", args: []string{"wide"}, want: ErrInvalidArgument},
		{name: "setImageAlign", args: []string{"top"}, want: ErrInvalidArgument},
		{name: "toggleHeading", args: []string{"4"}, want: ErrInvalidArgument},
		{name: "setColor", want: ErrInvalidArgument},
	}
	for _, tc := range cases {
		if _, err := Lookup(tc.name, tc.args...); !errors.Is(err, tc.want) {
			t.Fatalf("Lookup(%s %v) err=%v, want %v", tc.name, tc.args, err, tc.want)
		}
	}

	names := Names()
	for _, want := range []string{"toggleBold", "setGradient", "setImageWidth", "undo"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Fatalf("Names()=%v missing %q", names, want)
		}
	}
}

func TestSelection_ResolveDegradesStaleNodeSelection(t *testing.T) {
	root := doc.Parse("<p>ab</p>")
	got := NodeSelection(doc.Pos{Offset: 1}).Resolve(root)
	if got != Cursor(doc.Pos{Offset: 1}) {
		t.Fatalf("Resolve=%v, want cursor", got)
	}
	got = TextSelection(doc.Pos{Block: 3}, doc.Pos{Offset: -2}).Resolve(root)
	if want := TextSelection(doc.Pos{Offset: 2}, doc.Pos{}); got != want {
		t.Fatalf("Resolve=%v, want %v", got, want)
	}
}
