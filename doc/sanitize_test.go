package doc

import (
	"strings"
	"testing"
)

func TestSanitize_StripsActiveContent(t *testing.T) {
	got := Sanitize(`<p onclick="steal()">hi<script>alert(1)</script></p><a href="javascript:alert(1)">x</a>`)
	for _, bad := range []string{"onclick", "script", "javascript"} {
		if strings.Contains(got, bad) {
			t.Fatalf("sanitized markup %q still contains %q", got, bad)
		}
	}
	if !strings.Contains(got, "hi") || !strings.Contains(got, "x") {
		t.Fatalf("sanitized markup %q lost text", got)
	}
}

func TestSanitize_KeepsImageVocabulary(t *testing.T) {
	got := Sanitize(`<p><img src="https://example.com/a.png" width="300" data-align="left" onerror="bad()"></p>`)
	if strings.Contains(got, "onerror") {
		t.Fatalf("sanitized markup %q kept event handler", got)
	}
	img := NodeAt(Parse(got), Pos{})
	if img == nil || img.Kind != KindImage {
		t.Fatalf("image lost: %q", got)
	}
	if img.Image.Width != 300 || img.Image.Align != ImageAlignLeft {
		t.Fatalf("attrs=%+v from %q", img.Image, got)
	}
}

func TestSanitize_DropsUnknownAlignment(t *testing.T) {
	got := Sanitize(`<p><img src="a.png" data-align="top"></p>`)
	if strings.Contains(got, "data-align") {
		t.Fatalf("sanitized markup %q kept invalid alignment", got)
	}
}

func TestSanitize_PreservesStyledMarks(t *testing.T) {
	const g = "linear-gradient(90deg, #f00, #00f)"
	root := NewDoc(Paragraph(Text("Hi", NewMark(MarkGradient, g), NewMark(MarkColor, "#fff"))))
	back := Parse(Sanitize(Serialize(root)))
	marks := MarksAt(back, Pos{Offset: 1})
	if m, _ := marks.Get(MarkGradient); m.Value != g {
		t.Fatalf("gradient=%q, want %q", m.Value, g)
	}
	if m, _ := marks.Get(MarkColor); m.Value != "#fff" {
		t.Fatalf("color=%q, want #fff", m.Value)
	}
}
