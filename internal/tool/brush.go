package tool

import (
	"image"
	"image/color"
	"sort"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/render"
)

// Brush paints round-capped strokes in a solid colour.
type Brush struct {
	Params BrushParams

	doc    Document
	stroke stroke
	ink    color.NRGBA
	size   float64
}

// NewBrush returns a brush with default parameters.
func NewBrush(doc Document) *Brush {
	return &Brush{doc: doc, Params: DefaultBrushParams()}
}

func (b *Brush) Activate() Cursor {
	b.stroke.end()
	return CursorNone
}

func (b *Brush) Deactivate() { b.stroke.end() }

func (b *Brush) PointerDown(p geom.Point) {
	l := paintable(b.doc)
	if l == nil {
		return
	}
	b.size = b.Params.Size
	c := b.Params.Color
	b.ink = color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*b.Params.Opacity + 0.5)}
	b.stroke.begin(b.doc, l, p, b.size)
}

func (b *Brush) PointerMove(p geom.Point) {
	if !b.stroke.active() {
		return
	}
	if b.stroke.stale() {
		b.stroke.end()
		return
	}
	b.stroke.extend(p, b.Params.Smoothing)
	sigma := softSigma(b.Params.Softness, b.size, b.stroke.layer.Scale)
	b.stroke.paintSegment(sigma, func(dst *image.RGBA, mask *image.Alpha) {
		render.Paint(dst, b.ink, mask)
	})
	b.doc.Invalidate()
}

func (b *Brush) PointerUp(geom.Point) { b.stroke.end() }

func (b *Brush) PointerLeave(p geom.Point) { b.PointerUp(p) }

// CursorRadius returns the brush radius in world units.
func (b *Brush) CursorRadius() float64 { return b.Params.Size / 2 }

func (b *Brush) Set(key, value string) error { return b.Params.Set(key, value) }

func (b *Brush) Get(key string) (string, bool) { return b.Params.Get(key) }

func (b *Brush) Keys() []string { return b.Params.Keys() }

// Eraser removes pixels along the stroke. It shares the brush pipeline but
// composites with destination-out, so colour and opacity do not apply.
type Eraser struct {
	Params EraserParams

	doc    Document
	stroke stroke
	size   float64
}

// NewEraser returns an eraser with default parameters.
func NewEraser(doc Document) *Eraser {
	return &Eraser{doc: doc, Params: DefaultEraserParams()}
}

func (e *Eraser) Activate() Cursor {
	e.stroke.end()
	return CursorNone
}

func (e *Eraser) Deactivate() { e.stroke.end() }

func (e *Eraser) PointerDown(p geom.Point) {
	l := paintable(e.doc)
	if l == nil {
		return
	}
	e.size = e.Params.Size
	e.stroke.begin(e.doc, l, p, e.size)
}

func (e *Eraser) PointerMove(p geom.Point) {
	if !e.stroke.active() {
		return
	}
	if e.stroke.stale() {
		e.stroke.end()
		return
	}
	e.stroke.extend(p, e.Params.Smoothing)
	sigma := softSigma(e.Params.Softness, e.size, e.stroke.layer.Scale)
	e.stroke.paintSegment(sigma, render.Erase)
	e.doc.Invalidate()
}

func (e *Eraser) PointerUp(geom.Point) { e.stroke.end() }

func (e *Eraser) PointerLeave(p geom.Point) { e.PointerUp(p) }

// CursorRadius returns the eraser radius in world units.
func (e *Eraser) CursorRadius() float64 { return e.Params.Size / 2 }

func (e *Eraser) Set(key, value string) error { return e.Params.Set(key, value) }

func (e *Eraser) Get(key string) (string, bool) { return e.Params.Get(key) }

func (e *Eraser) Keys() []string { return e.Params.Keys() }

func sortedKeys(keys ...string) []string {
	sort.Strings(keys)
	return keys
}
