// Package compose flattens the layer stack into a single world-sized image.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/render"
	"github.com/example/layerpaint/internal/selection"
)

// Overlay is presentation drawn after the layers, such as a pending crop
// rectangle. Overlays must not touch layer pixels.
type Overlay interface {
	Overlay(dst *image.RGBA)
}

// Compositor owns the output surface.
type Compositor struct {
	background color.Color
	out        *image.RGBA
}

// New returns a compositor for a w×h world cleared to bg.
func New(w, h int, bg color.Color) *Compositor {
	c := &Compositor{background: bg}
	c.Resize(w, h)
	return c
}

// Resize reallocates the output and clears it to the background.
func (c *Compositor) Resize(w, h int) {
	c.out = image.NewRGBA(image.Rect(0, 0, w, h))
	c.clear()
}

// Image returns the last rendered frame. The compositor reuses the buffer on
// the next Render.
func (c *Compositor) Image() *image.RGBA { return c.out }

func (c *Compositor) clear() {
	draw.Draw(c.out, c.out.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

// Render draws every visible layer from the bottom of the stack to the top,
// then the selection outline and any extra overlays. sel may be nil.
func (c *Compositor) Render(layers []*layer.Layer, sel *selection.Region, extra ...Overlay) *image.RGBA {
	c.clear()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible {
			continue
		}
		render.DrawTransformed(c.out, l.Buffer, l.Transform(), l.Opacity)
	}
	if sel != nil {
		sel.Overlay(c.out, geom.Identity())
	}
	for _, o := range extra {
		if o != nil {
			o.Overlay(c.out)
		}
	}
	return c.out
}

// Flatten returns a fresh composite of the visible layers with no overlays,
// suitable for export.
func Flatten(layers []*layer.Layer, w, h int, bg color.Color) *image.RGBA {
	c := New(w, h, bg)
	return c.Render(layers, nil)
}
