package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/example/layerpaint/internal/geom"
)

// StrokeMask rasterises the polyline pts as a stroke of the given width with
// round caps and joins. The mask covers r, in the same coordinates as pts. A
// polyline with fewer than two points produces an empty mask.
func StrokeMask(pts []geom.Point, width float64, r image.Rectangle) *image.Alpha {
	if len(pts) < 2 || r.Empty() {
		return image.NewAlpha(r)
	}
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.Translate(-float64(r.Min.X), -float64(r.Min.Y))
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.SetColor(color.White)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
	m := dc.AsMask()
	m.Rect = r
	return m
}

// CircleMask returns an antialiased disc of the given radius centred on c,
// covering r.
func CircleMask(c geom.Point, radius float64, r image.Rectangle) *image.Alpha {
	if radius <= 0 || r.Empty() {
		return image.NewAlpha(r)
	}
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetColor(color.White)
	dc.DrawCircle(c.X-float64(r.Min.X), c.Y-float64(r.Min.Y), radius)
	dc.Fill()
	m := dc.AsMask()
	m.Rect = r
	return m
}

// PolygonMask fills the closed polygon pts after mapping every vertex through
// m. The mask covers r in the mapped space.
func PolygonMask(pts []geom.Point, m f64.Aff3, r image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(r)
	if len(pts) < 3 || r.Empty() {
		return mask
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	for i, p := range pts {
		q := geom.Apply(m, p)
		x, y := float32(q.X-float64(r.Min.X)), float32(q.Y-float64(r.Min.Y))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
	z.Draw(mask, r, image.Opaque, image.Point{})
	return mask
}

// Intersect multiplies dst by clip in place. Pixels of dst outside clip's
// bounds are cleared.
func Intersect(dst, clip *image.Alpha) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := dst.PixOffset(x, y)
			if dst.Pix[i] == 0 {
				continue
			}
			if !image.Pt(x, y).In(clip.Rect) {
				dst.Pix[i] = 0
				continue
			}
			dst.Pix[i] = mul8(dst.Pix[i], clip.Pix[clip.PixOffset(x, y)])
		}
	}
}

// Union combines a mask with a softened copy of itself: a + b*(1-a). The
// softened copy must share dst's bounds.
func Union(dst, soft *image.Alpha) {
	for i, a := range dst.Pix {
		dst.Pix[i] = a + mul8(soft.Pix[i], 255-a)
	}
}

// Max raises dst to src wherever src covers more. Only the overlap of the
// two masks is visited.
func Max(dst, src *image.Alpha) {
	r := dst.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di, si := dst.PixOffset(r.Min.X, y), src.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			if v := src.Pix[si+x]; v > dst.Pix[di+x] {
				dst.Pix[di+x] = v
			}
		}
	}
}

// Erase removes coverage from dst wherever mask is set, the equivalent of a
// destination-out blend. Colour and alpha shrink together since the buffer
// is premultiplied.
func Erase(dst *image.RGBA, mask *image.Alpha) {
	r := mask.Bounds().Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := mask.Pix[mask.PixOffset(x, y)]
			if m == 0 {
				continue
			}
			k := 255 - m
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = mul8(dst.Pix[i+c], k)
			}
		}
	}
}

// Paint blends a solid colour into dst through mask using normal source-over
// compositing.
func Paint(dst *image.RGBA, c color.Color, mask *image.Alpha) {
	r := mask.Bounds().Intersect(dst.Bounds())
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

// Lerp replaces dst with src in proportion to mask: dst = src*m + dst*(1-m).
// Where the mask is zero dst is left untouched.
func Lerp(dst, src *image.RGBA, mask *image.Alpha) {
	r := mask.Bounds().Intersect(dst.Bounds()).Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := mask.Pix[mask.PixOffset(x, y)]
			if m == 0 {
				continue
			}
			di, si := dst.PixOffset(x, y), src.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[di+c] = mul8(src.Pix[si+c], m) + mul8(dst.Pix[di+c], 255-m)
			}
		}
	}
}

// mul8 multiplies two 8-bit fractions with rounding.
func mul8(a, b uint8) uint8 {
	v := uint32(a)*uint32(b) + 128
	return uint8((v + v>>8) >> 8)
}
