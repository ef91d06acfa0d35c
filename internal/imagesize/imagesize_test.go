package imagesize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProber_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cat.png"), 640, 320)
	p := New(dir, nil)

	for _, src := range []string{"cat.png", filepath.Join(dir, "cat.png"), "file://" + filepath.ToSlash(filepath.Join(dir, "cat.png"))} {
		w, h, ok := p.Size(src)
		if !ok || w != 640 || h != 320 {
			t.Fatalf("Size(%q)=(%d,%d,%v), want (640,320,true)", src, w, h, ok)
		}
	}
}

func TestProber_CachesResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, 10, 20)
	p := New(dir, nil)

	if _, _, ok := p.Size("a.png"); !ok {
		t.Fatalf("first probe failed")
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if w, h, ok := p.Size("a.png"); !ok || w != 10 || h != 20 {
		t.Fatalf("cached Size=(%d,%d,%v)", w, h, ok)
	}
	p.Forget()
	if _, _, ok := p.Size("a.png"); ok {
		t.Fatalf("Size after Forget found a removed file")
	}
}

func TestProber_DataURI(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 3, 7), color.Palette{color.Black, color.White}), nil); err != nil {
		t.Fatal(err)
	}
	enc := base64.StdEncoding.EncodeToString(buf.Bytes())
	p := New("", nil)

	if w, h, ok := p.Size("data:image/gif;base64," + enc); !ok || w != 3 || h != 7 {
		t.Fatalf("Size=(%d,%d,%v), want (3,7,true)", w, h, ok)
	}
	if w, h, ok := p.Size("data:image/gif;base64," + strings.TrimRight(enc, "=")); !ok || w != 3 || h != 7 {
		t.Fatalf("unpadded Size=(%d,%d,%v), want (3,7,true)", w, h, ok)
	}
	if _, _, ok := p.Size("data:image/gif;base64"); ok {
		t.Fatalf("malformed data URI accepted")
	}
}

func TestProber_RejectsRemoteAndMissing(t *testing.T) {
	p := New(t.TempDir(), nil)
	if _, err := p.probe("https://example.com/a.png"); !errors.Is(err, ErrRemote) {
		t.Fatalf("err=%v, want ErrRemote", err)
	}
	if _, err := p.probe("missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want ErrNotExist", err)
	}
}

func TestDecodeConfig_NotAnImage(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("<p>hello</p>"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("err=%v, want ErrNotImage", err)
	}
}
