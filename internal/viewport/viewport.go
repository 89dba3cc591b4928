// Package viewport maps between screen pixels and world coordinates.
//
// The world is the logical canvas the user edits. Screen coordinates are
// pixels relative to the top-left corner of the visible canvas area. The
// mapping is world*Scale + Offset.
package viewport

import (
	"math"

	"golang.org/x/image/math/f64"
)

const (
	MinScale  = 0.1
	MaxScale  = 5.0
	ZoomStep  = 0.1
	zoomGrain = 1e6
)

// Viewport holds the world size and the pan/zoom state. The zero value is not
// useful; call New.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64

	width, height int

	panning          bool
	anchorX, anchorY float64
}

// New returns a viewport for a world of w×h pixels at scale 1.
func New(w, h int) *Viewport {
	v := &Viewport{}
	v.Resize(w, h)
	return v
}

// Width returns the world width.
func (v *Viewport) Width() int { return v.width }

// Height returns the world height.
func (v *Viewport) Height() int { return v.height }

// Resize changes the world size and resets scale and offsets.
func (v *Viewport) Resize(w, h int) {
	v.width, v.height = w, h
	v.Reset()
}

// Reset returns to scale 1 with no offset and abandons any pan in progress.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.OffsetX, v.OffsetY = 0, 0
	v.panning = false
}

// ScreenToWorld converts a screen pixel position to world coordinates.
func (v *Viewport) ScreenToWorld(px, py float64) (x, y float64) {
	return (px - v.OffsetX) / v.Scale, (py - v.OffsetY) / v.Scale
}

// WorldToScreen is the inverse of ScreenToWorld.
func (v *Viewport) WorldToScreen(x, y float64) (px, py float64) {
	return x*v.Scale + v.OffsetX, y*v.Scale + v.OffsetY
}

// Transform returns the world-to-screen matrix.
func (v *Viewport) Transform() f64.Aff3 {
	return f64.Aff3{v.Scale, 0, v.OffsetX, 0, v.Scale, v.OffsetY}
}

// Zoom steps the scale by ZoomStep in the direction of dir: positive zooms
// in, negative zooms out. The result is clamped to [MinScale, MaxScale]. It
// reports whether the scale changed.
func (v *Viewport) Zoom(dir int) bool {
	if dir == 0 {
		return false
	}
	step := ZoomStep
	if dir < 0 {
		step = -step
	}
	next := math.Round((v.Scale+step)*zoomGrain) / zoomGrain
	next = math.Max(MinScale, math.Min(MaxScale, next))
	if next == v.Scale {
		return false
	}
	v.Scale = next
	return true
}

// ZoomAt zooms like Zoom but keeps the world point under (px, py) fixed on
// screen.
func (v *Viewport) ZoomAt(dir int, px, py float64) bool {
	wx, wy := v.ScreenToWorld(px, py)
	if !v.Zoom(dir) {
		return false
	}
	v.OffsetX = px - wx*v.Scale
	v.OffsetY = py - wy*v.Scale
	return true
}

// BeginPan records the drag anchor for a pan gesture starting at screen
// position (px, py).
func (v *Viewport) BeginPan(px, py float64) {
	v.panning = true
	v.anchorX = px - v.OffsetX
	v.anchorY = py - v.OffsetY
}

// Pan moves the offset so the anchor follows the pointer. The offset is set
// absolutely from the anchor, so repeated calls do not accumulate error.
func (v *Viewport) Pan(px, py float64) bool {
	if !v.panning {
		return false
	}
	v.OffsetX = px - v.anchorX
	v.OffsetY = py - v.anchorY
	return true
}

// EndPan finishes a pan gesture.
func (v *Viewport) EndPan() { v.panning = false }

// Panning reports whether a pan gesture is in progress.
func (v *Viewport) Panning() bool { return v.panning }
