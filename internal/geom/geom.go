// Package geom holds the small amount of planar math shared by the editor:
// points, float rectangles and affine transforms expressed as f64.Aff3.
package geom

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Point is a position in any of the editor's coordinate spaces. The space is
// implied by the caller; geom never converts between spaces on its own.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Rect is an axis-aligned rectangle with float bounds. Min is inclusive and
// Max exclusive, matching image.Rectangle.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the rectangle spanned by two opposite corners given
// in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Bounds returns the smallest integer rectangle covering r.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

// Inset shrinks r by n on every side. A negative n grows it.
func (r Rect) Inset(n float64) Rect {
	return Rect{Min: Point{r.Min.X + n, r.Min.Y + n}, Max: Point{r.Max.X - n, r.Max.Y - n}}
}

// BoundsOf returns the bounding rectangle of pts. It is the zero Rect when
// pts is empty.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Identity returns the identity transform.
func Identity() f64.Aff3 { return f64.Aff3{1, 0, 0, 0, 1, 0} }

// Translate returns a transform that moves points by (dx, dy).
func Translate(dx, dy float64) f64.Aff3 { return f64.Aff3{1, 0, dx, 0, 1, dy} }

// Scale returns a uniform scale about the origin.
func Scale(s float64) f64.Aff3 { return f64.Aff3{s, 0, 0, 0, s, 0} }

// Mul composes two transforms. The result applies b first, then a, which is
// the order a 2D canvas uses when calls are made as a then b.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps p through m.
func Apply(m f64.Aff3, p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Invert returns the inverse of m. ok is false when m is singular.
func Invert(m f64.Aff3) (inv f64.Aff3, ok bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return f64.Aff3{}, false
	}
	id := 1 / det
	inv = f64.Aff3{
		m[4] * id,
		-m[1] * id,
		(m[1]*m[5] - m[4]*m[2]) * id,
		-m[3] * id,
		m[0] * id,
		(m[3]*m[2] - m[0]*m[5]) * id,
	}
	return inv, true
}

// IntegerTranslation reports whether m is a pure translation by whole
// pixels, returning the offset when it is.
func IntegerTranslation(m f64.Aff3) (image.Point, bool) {
	if m[0] != 1 || m[1] != 0 || m[3] != 0 || m[4] != 1 {
		return image.Point{}, false
	}
	if m[2] != math.Trunc(m[2]) || m[5] != math.Trunc(m[5]) {
		return image.Point{}, false
	}
	return image.Pt(int(m[2]), int(m[5])), true
}
