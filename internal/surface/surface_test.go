package surface

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"termcanvas/internal/layout"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func TestRasterMeasureBasicFont(t *testing.T) {
	r := NewRaster(10, 10, nil)
	if got := r.MeasureText("abc"); got != 21 {
		t.Fatalf("MeasureText = %v, want 21 (7px advance)", got)
	}
	if got := r.MeasureText(""); got != 0 {
		t.Fatalf("MeasureText(\"\") = %v", got)
	}
}

func TestRasterFillRectClipsToBounds(t *testing.T) {
	r := NewRaster(4, 4, nil)
	r.FillRect(layout.Rect{X: -2, Y: 2, W: 10, H: 10}, red)
	if got := r.Image().RGBAAt(0, 3); got != red {
		t.Fatalf("pixel (0,3) = %v, want red", got)
	}
	if got := r.Image().RGBAAt(0, 1); got == red {
		t.Fatalf("pixel (0,1) should be untouched")
	}
}

func TestRasterFillTextAndCircle(t *testing.T) {
	r := NewRaster(40, 20, nil)
	r.FillRect(layout.Rect{W: 40, H: 20}, black)
	r.FillText("W", 2, 2, white)
	r.FillCircle(30, 10, 4, red)

	lit := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			if r.Image().RGBAAt(x, y) == white {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("FillText did not draw any glyph pixels")
	}
	if got := r.Image().RGBAAt(30, 10); got != red {
		t.Fatalf("circle center = %v, want red", got)
	}
	if got := r.Image().RGBAAt(39, 0); got != black {
		t.Fatalf("corner outside the circle = %v, want black", got)
	}
}

func TestRasterWritePNG(t *testing.T) {
	r := NewRaster(3, 2, nil)
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestLoadFace(t *testing.T) {
	for _, family := range []string{"", "basic", "goregular", "gomono"} {
		face, err := LoadFace(family, 16)
		if err != nil {
			t.Fatalf("LoadFace(%q): %v", family, err)
		}
		if face == nil {
			t.Fatalf("LoadFace(%q) returned nil face", family)
		}
	}
	if _, err := LoadFace("comic", 12); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestGridDrawAndPlain(t *testing.T) {
	g := NewGrid(8, 2)
	g.FillRect(layout.Rect{W: 8, H: 2}, black)
	g.FillRect(layout.Rect{X: 1, Y: 1, W: 2, H: 1}, red)
	g.FillText("hi", 1, 1, white)
	g.FillText("你好", 4, 0, white)
	g.FillCircle(0.5, 0.5, 0.25, red)

	plain := g.Plain()
	if plain[0] != "●   你好" {
		t.Fatalf("row 0 = %q", plain[0])
	}
	if plain[1] != " hi" {
		t.Fatalf("row 1 = %q", plain[1])
	}
	if c := g.At(1, 1); c.Bg != red || c.Fg != white || c.Rune != 'h' {
		t.Fatalf("cell (1,1) = %+v", c)
	}
	if g.MeasureText("你好a") != 5 {
		t.Fatalf("MeasureText wide = %v", g.MeasureText("你好a"))
	}
}

func TestGridLinesRendersEveryRow(t *testing.T) {
	g := NewGrid(5, 3)
	g.FillText("abc", 0, 1, red)
	lines := g.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[1], "abc") {
		t.Fatalf("styled row lost its text: %q", lines[1])
	}
}
