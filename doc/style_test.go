package doc

import "testing"

func TestParsePixels(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"300", 300, true},
		{" 300.4PX ", 300, true},
		{"0.6px", 1, true},
		{"0.4", 0, false},
		{"0", 0, false},
		{"-20px", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"1e20", 0, false},
		{"-1e20", 0, false},
		{"1048576", MaxPixels, true},
		{"1048577", 0, false},
		{"wide", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePixels(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParsePixels(%q)=(%d,%v), want (%d,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewMark_StyleValuesAreCanonical(t *testing.T) {
	tests := []struct {
		typ  MarkType
		in   string
		want string
	}{
		{MarkFontFamily, "Times  New Roman", "Times New Roman"},
		{MarkColor, "rgb(1,  2, 3)", "rgb(1, 2, 3)"},
		{MarkFontSize, "12px /* big */", "12px"},
		{MarkColor, "red; background: blue", "red background: blue"},
		{MarkGradient, " linear-gradient(90deg,  #f00,  #00f) ", "linear-gradient(90deg, #f00, #00f)"},
	}
	for _, tt := range tests {
		m := NewMark(tt.typ, tt.in)
		if m.Value != tt.want {
			t.Fatalf("NewMark(%v, %q).Value=%q, want %q", tt.typ, tt.in, m.Value, tt.want)
		}
		if again := NewMark(tt.typ, m.Value); again.Value != m.Value {
			t.Fatalf("NewMark not idempotent: %q -> %q", m.Value, again.Value)
		}
	}
}
