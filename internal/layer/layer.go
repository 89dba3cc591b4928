// Package layer implements the ordered stack of raster layers.
package layer

import (
	"image"
	"image/draw"

	"golang.org/x/image/math/f64"

	"github.com/example/layerpaint/internal/geom"
)

// Layer is one raster buffer placed in the world. The buffer's origin is
// always (0,0); X and Y give the world position of that origin and Scale the
// uniform magnification applied when compositing.
type Layer struct {
	ID      int
	Name    string
	Buffer  *image.RGBA
	X, Y    float64
	Scale   float64
	Opacity float64
	Visible bool
}

// New allocates a transparent w×h layer at the world origin.
func New(id int, name string, w, h int) *Layer {
	return &Layer{
		ID:      id,
		Name:    name,
		Buffer:  image.NewRGBA(image.Rect(0, 0, w, h)),
		Scale:   1,
		Opacity: 1,
		Visible: true,
	}
}

// Size returns the buffer dimensions.
func (l *Layer) Size() (w, h int) {
	b := l.Buffer.Bounds()
	return b.Dx(), b.Dy()
}

// ToLocal converts a world point to this layer's buffer coordinates.
func (l *Layer) ToLocal(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - l.X) / l.Scale, Y: (p.Y - l.Y) / l.Scale}
}

// ToWorld converts a buffer point to world coordinates.
func (l *Layer) ToWorld(p geom.Point) geom.Point {
	return geom.Point{X: p.X*l.Scale + l.X, Y: p.Y*l.Scale + l.Y}
}

// Transform returns the local-to-world matrix.
func (l *Layer) Transform() f64.Aff3 {
	return geom.Mul(geom.Translate(l.X, l.Y), geom.Scale(l.Scale))
}

// Inverse returns the world-to-local matrix.
func (l *Layer) Inverse() f64.Aff3 {
	return geom.Mul(geom.Scale(1/l.Scale), geom.Translate(-l.X, -l.Y))
}

// Translate moves the layer by (dx, dy) world units.
func (l *Layer) Translate(dx, dy float64) {
	l.X += dx
	l.Y += dy
}

// Replace swaps in a new buffer that already has the old placement baked in,
// so the layer returns to the origin at scale 1.
func (l *Layer) Replace(buf *image.RGBA) {
	l.Buffer = buf
	l.X, l.Y = 0, 0
	l.Scale = 1
}

// Paintable reports whether tools may draw on the layer.
func (l *Layer) Paintable() bool { return l != nil && l.Visible }

// Snapshot returns a copy of the buffer.
func (l *Layer) Snapshot() *image.RGBA {
	cp := image.NewRGBA(l.Buffer.Bounds())
	copy(cp.Pix, l.Buffer.Pix)
	return cp
}

// toRGBA copies img into a new RGBA buffer whose origin is (0,0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
