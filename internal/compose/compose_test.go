package compose

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/selection"
)

func solid(s *layer.Store, name string, c color.RGBA) *layer.Layer {
	l := s.Add(name, nil)
	for i := 0; i < len(l.Buffer.Pix); i += 4 {
		l.Buffer.Pix[i], l.Buffer.Pix[i+1], l.Buffer.Pix[i+2], l.Buffer.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return l
}

func TestTopLayerWins(t *testing.T) {
	s := layer.NewStore(20, 20)
	solid(s, "B", color.RGBA{B: 255, A: 255})
	solid(s, "A", color.RGBA{R: 255, A: 255})

	c := New(20, 20, color.White)
	out := c.Render(s.Layers(), nil)
	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("overlap pixel = %v, want layer A's red", got)
	}
}

func TestBackgroundIsOpaqueWhite(t *testing.T) {
	c := New(4, 4, color.White)
	out := c.Render(nil, nil)
	if got := out.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background = %v", got)
	}
}

func TestHiddenLayerSkippedAndBufferKept(t *testing.T) {
	s := layer.NewStore(10, 10)
	solid(s, "bottom", color.RGBA{G: 255, A: 255})
	top := solid(s, "top", color.RGBA{R: 255, A: 255})
	stored := append([]uint8(nil), top.Buffer.Pix...)

	c := New(10, 10, color.White)
	first := append([]uint8(nil), c.Render(s.Layers(), nil).Pix...)

	s.ToggleVisible(0)
	if got := c.Render(s.Layers(), nil).RGBAAt(3, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("hidden top still visible: %v", got)
	}
	if !bytes.Equal(stored, top.Buffer.Pix) {
		t.Fatal("hiding changed the stored buffer")
	}

	s.ToggleVisible(0)
	if !bytes.Equal(first, c.Render(s.Layers(), nil).Pix) {
		t.Fatal("toggling twice did not restore the composite")
	}
}

func TestOpacityBlends(t *testing.T) {
	s := layer.NewStore(4, 4)
	solid(s, "black", color.RGBA{A: 255})
	s.SetActiveOpacity(0.5)
	out := New(4, 4, color.White).Render(s.Layers(), nil)
	if got := out.RGBAAt(1, 1).R; got < 120 || got > 135 {
		t.Fatalf("half opacity black over white = %d", got)
	}
}

func TestLayerTransformApplied(t *testing.T) {
	s := layer.NewStore(50, 50)
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(0, 0, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	l := s.Add("small", img)
	l.X, l.Y = 30, 5
	out := New(50, 50, color.White).Render(s.Layers(), nil)
	if got := out.RGBAAt(30, 5); got != (color.RGBA{R: 9, G: 8, B: 7, A: 255}) {
		t.Fatalf("layer origin pixel = %v", got)
	}
	if got := out.RGBAAt(29, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("pixel left of the layer = %v", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	s := layer.NewStore(16, 16)
	solid(s, "a", color.RGBA{R: 10, G: 20, B: 30, A: 255})
	l := solid(s, "b", color.RGBA{R: 200, A: 128})
	l.X, l.Scale = 2.5, 0.75
	c := New(16, 16, color.White)
	first := append([]uint8(nil), c.Render(s.Layers(), nil).Pix...)
	c.Render(s.Layers(), nil)
	second := c.Render(s.Layers(), nil)
	if !bytes.Equal(first, second.Pix) {
		t.Fatal("repeated renders differ")
	}
}

type marker struct{ drawn bool }

func (m *marker) Overlay(dst *image.RGBA) { m.drawn = true }

func TestOverlaysDrawnAndFlattenSkipsThem(t *testing.T) {
	var sel selection.Region
	sel.Begin(1, 1)
	sel.Extend(8, 1)
	sel.Extend(8, 8)
	sel.Commit()

	s := layer.NewStore(10, 10)
	s.Add("", nil)
	m := &marker{}
	out := New(10, 10, color.White).Render(s.Layers(), &sel, m)
	if !m.drawn {
		t.Fatal("extra overlay not drawn")
	}
	if out.RGBAAt(8, 5) == (color.RGBA{255, 255, 255, 255}) && out.RGBAAt(7, 5) == (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("selection outline missing")
	}

	flat := Flatten(s.Layers(), 10, 10, color.White)
	for i, v := range flat.Pix {
		if v != 255 {
			t.Fatalf("flatten drew overlay at byte %d", i)
		}
	}
}
