// Package selection holds the freeform lasso region. The polygon is always
// stored in world coordinates; callers that draw in another space get a
// mask in their own space via Mask.
package selection

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/math/f64"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/render"
)

// minPoints is the smallest capture that commits to a polygon.
const minPoints = 3

// Region is either empty or a closed polygon in world space, plus the open
// point list being captured while the lasso is down.
type Region struct {
	polygon   []geom.Point
	capture   []geom.Point
	capturing bool
}

// Begin discards any committed polygon and starts a new capture at (x, y).
func (r *Region) Begin(x, y float64) {
	r.polygon = nil
	r.capture = []geom.Point{{X: x, Y: y}}
	r.capturing = true
}

// Extend appends a point to the capture. It does nothing when no capture is
// in progress.
func (r *Region) Extend(x, y float64) {
	if !r.capturing {
		return
	}
	r.capture = append(r.capture, geom.Point{X: x, Y: y})
}

// Commit closes the capture into a polygon. Captures with fewer than three
// points leave the region empty. It reports whether a polygon was stored.
func (r *Region) Commit() bool {
	pts := r.capture
	r.capture = nil
	r.capturing = false
	if len(pts) < minPoints {
		r.polygon = nil
		return false
	}
	r.polygon = append(pts, pts[0])
	return true
}

// Clear empties the region and abandons any capture.
func (r *Region) Clear() {
	r.polygon = nil
	r.capture = nil
	r.capturing = false
}

// IsActive reports whether a committed polygon exists.
func (r *Region) IsActive() bool { return len(r.polygon) > 0 }

// Capturing reports whether a lasso capture is in progress.
func (r *Region) Capturing() bool { return r.capturing }

// Polygon returns a copy of the committed polygon including its explicit
// closing vertex, or nil when the region is empty.
func (r *Region) Polygon() []geom.Point {
	if len(r.polygon) == 0 {
		return nil
	}
	return append([]geom.Point(nil), r.polygon...)
}

// Translate shifts the committed polygon by (dx, dy) world units.
func (r *Region) Translate(dx, dy float64) {
	for i := range r.polygon {
		r.polygon[i].X += dx
		r.polygon[i].Y += dy
	}
}

// Contains reports whether the world point p lies inside the committed
// polygon using the non-zero winding rule. An empty region contains nothing.
func (r *Region) Contains(p geom.Point) bool {
	n := len(r.polygon)
	if n == 0 {
		return false
	}
	winding := 0
	for i := 0; i+1 < n; i++ {
		a, b := r.polygon[i], r.polygon[i+1]
		side := (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
		switch {
		case a.Y <= p.Y && b.Y > p.Y && side > 0:
			winding++
		case a.Y > p.Y && b.Y <= p.Y && side < 0:
			winding--
		}
	}
	return winding != 0
}

// Mask rasterises the committed polygon into the caller's drawing space. The
// stack holds the caller's current transform; toLocal (world to caller
// space) is pushed for the duration of the rasterisation and popped again
// before Mask returns, leaving the stack as it was. bounds is the caller's
// pixel grid. It returns nil when the region is empty.
func (r *Region) Mask(stack *geom.Stack, toLocal f64.Aff3, bounds image.Rectangle) *image.Alpha {
	if !r.IsActive() {
		return nil
	}
	release := stack.Push(toLocal)
	defer release()
	return render.PolygonMask(r.polygon, stack.Current(), bounds)
}

// Overlay strokes the committed polygon and any in-progress capture onto
// dst, mapping world points through worldToDst. The outline is a black line
// under white dashes so it reads on light and dark content alike.
func (r *Region) Overlay(dst *image.RGBA, worldToDst f64.Aff3) {
	if len(r.polygon) == 0 && len(r.capture) < 2 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetLineWidth(1)
	if len(r.polygon) > 0 {
		tracePath(dc, r.polygon, worldToDst)
		dc.ClosePath()
		dashedOutline(dc)
	}
	if r.capturing && len(r.capture) > 1 {
		tracePath(dc, r.capture, worldToDst)
		dashedOutline(dc)
	}
}

func tracePath(dc *gg.Context, pts []geom.Point, m f64.Aff3) {
	dc.NewSubPath()
	for i, p := range pts {
		q := geom.Apply(m, p)
		if i == 0 {
			dc.MoveTo(q.X, q.Y)
			continue
		}
		dc.LineTo(q.X, q.Y)
	}
}

func dashedOutline(dc *gg.Context) {
	dc.SetDash()
	dc.SetColor(color.Black)
	dc.StrokePreserve()
	dc.SetDash(5, 5)
	dc.SetColor(color.White)
	dc.Stroke()
}
