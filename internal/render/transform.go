package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/layerpaint/internal/geom"
)

// DrawTransformed composites src over dst after mapping src's pixel grid
// through m (source to destination). opacity scales src's alpha for this
// draw only.
//
// Whole-pixel translations are copied exactly; anything else is resampled
// bilinearly.
func DrawTransformed(dst *image.RGBA, src *image.RGBA, m f64.Aff3, opacity float64) {
	if opacity <= 0 {
		return
	}
	var mask image.Image
	if opacity < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	}
	if off, ok := geom.IntegerTranslation(m); ok {
		sb := src.Bounds()
		r := sb.Add(off).Intersect(dst.Bounds())
		if r.Empty() {
			return
		}
		draw.DrawMask(dst, r, src, r.Min.Sub(off), mask, image.Point{}, draw.Over)
		return
	}
	var opts *xdraw.Options
	if mask != nil {
		opts = &xdraw.Options{SrcMask: mask}
	}
	xdraw.ApproxBiLinear.Transform(dst, m, src, src.Bounds(), xdraw.Over, opts)
}
