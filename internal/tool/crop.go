package tool

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/logging"
	"github.com/example/layerpaint/internal/render"
)

// MinCropSize is the smallest crop edge, in world units, that is kept.
const MinCropSize = 10

// Crop drags out a world-space rectangle. A released rectangle stays pending
// until Confirm or Cancel.
type Crop struct {
	doc      Document
	dragging bool
	start    geom.Point
	current  geom.Point
	pending  *geom.Rect
}

// NewCrop returns an idle crop tool.
func NewCrop(doc Document) *Crop { return &Crop{doc: doc} }

func (c *Crop) Activate() Cursor {
	c.dragging = false
	return CursorCrosshair
}

// Deactivate abandons the drag and any pending rectangle.
func (c *Crop) Deactivate() {
	c.dragging = false
	if c.pending != nil {
		c.pending = nil
		c.doc.Invalidate()
	}
}

func (c *Crop) PointerDown(p geom.Point) {
	c.dragging = true
	c.start, c.current = p, p
	c.pending = nil
	c.doc.Invalidate()
}

func (c *Crop) PointerMove(p geom.Point) {
	if !c.dragging {
		return
	}
	c.current = p
	c.doc.Invalidate()
}

func (c *Crop) PointerUp(p geom.Point) {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.current = p
	r := geom.RectFromPoints(c.start, c.current)
	if r.Dx() >= MinCropSize && r.Dy() >= MinCropSize {
		c.pending = &r
	} else {
		logging.Logger().Debug("crop rectangle discarded", "w", r.Dx(), "h", r.Dy())
	}
	c.doc.Invalidate()
}

func (c *Crop) PointerLeave(p geom.Point) { c.PointerUp(p) }

// Pending returns the rectangle awaiting confirmation.
func (c *Crop) Pending() (geom.Rect, bool) {
	if c.pending == nil {
		return geom.Rect{}, false
	}
	return *c.pending, true
}

// Confirm applies the pending rectangle. It reports whether a crop happened.
func (c *Crop) Confirm() bool {
	if c.pending == nil {
		return false
	}
	r := *c.pending
	c.pending = nil
	return ApplyCrop(c.doc, r)
}

// Cancel discards the pending rectangle.
func (c *Crop) Cancel() bool {
	if c.pending == nil && !c.dragging {
		return false
	}
	c.pending = nil
	c.dragging = false
	c.doc.Invalidate()
	return true
}

// ApplyCrop cuts every layer to r. Each layer's placement and scale are
// baked into a new buffer of exactly r's size, after which the layer sits at
// the origin at scale 1. The world canvas then shrinks to r.
func ApplyCrop(doc Document, r geom.Rect) bool {
	w, h := int(r.Dx()), int(r.Dy())
	if w < 1 || h < 1 {
		return false
	}
	shift := geom.Translate(-r.Min.X, -r.Min.Y)
	layers := doc.Layers().Layers()
	baked := make([]*image.RGBA, len(layers))
	for i, l := range layers {
		buf := image.NewRGBA(image.Rect(0, 0, w, h))
		render.DrawTransformed(buf, l.Buffer, geom.Mul(shift, l.Transform()), 1)
		baked[i] = buf
	}
	for i, l := range layers {
		l.Replace(baked[i])
	}
	doc.Selection().Translate(-r.Min.X, -r.Min.Y)
	doc.ResizeCanvas(w, h)
	doc.Invalidate()
	return true
}

var (
	cropShade   = color.NRGBA{A: 96}
	cropOutline = color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}
)

// Overlay shades everything outside the dragged or pending rectangle and
// outlines it.
func (c *Crop) Overlay(dst *image.RGBA) {
	var r geom.Rect
	switch {
	case c.dragging:
		r = geom.RectFromPoints(c.start, c.current)
	case c.pending != nil:
		r = *c.pending
	default:
		return
	}
	b := dst.Bounds()
	dc := gg.NewContextForRGBA(dst)
	dc.SetFillRuleEvenOdd()
	dc.DrawRectangle(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
	dc.DrawRectangle(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	dc.SetColor(cropShade)
	dc.Fill()

	dc.DrawRectangle(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	dc.SetLineWidth(1)
	dc.SetColor(cropOutline)
	if c.dragging {
		dc.SetDash(4, 4)
	}
	dc.Stroke()
}
