package render

import (
	"image"
	"math"
)

// boxPasses is the number of box blur passes used to approximate a gaussian.
const boxPasses = 3

// BoxRadius returns the box radius whose three-pass blur approximates a
// gaussian with the given standard deviation.
func BoxRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	w := math.Sqrt(12*sigma*sigma/boxPasses + 1)
	r := int(math.Round((w - 1) / 2))
	if r < 1 {
		r = 1
	}
	return r
}

// BlurAlpha returns a copy of src blurred with a gaussian of deviation sigma.
// The result keeps src's bounds.
func BlurAlpha(src *image.Alpha, sigma float64) *image.Alpha {
	out := image.NewAlpha(src.Bounds())
	copy(out.Pix, src.Pix)
	r := BoxRadius(sigma)
	if r == 0 {
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := make([]uint8, len(out.Pix))
	for i := 0; i < boxPasses; i++ {
		boxPass(out.Pix, tmp, w, h, out.Stride, 1, r, true)
		boxPass(tmp, out.Pix, w, h, out.Stride, 1, r, false)
	}
	return out
}

// BlurRGBA blurs src in place with a gaussian of deviation sigma. The
// channels are premultiplied, so the result has no dark fringes where
// transparent pixels meet opaque ones.
func BlurRGBA(src *image.RGBA, sigma float64) {
	r := BoxRadius(sigma)
	if r == 0 {
		return
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := make([]uint8, len(src.Pix))
	for i := 0; i < boxPasses; i++ {
		boxPass(src.Pix, tmp, w, h, src.Stride, 4, r, true)
		boxPass(tmp, src.Pix, w, h, src.Stride, 4, r, false)
	}
}

// boxPass runs one box filter of the given radius over every channel of a
// packed w×h image, horizontally or vertically. Edges use the clamped window
// average, which keeps flat regions flat up to the border.
func boxPass(src, dst []uint8, w, h, stride, channels, radius int, horizontal bool) {
	lines, length := h, w
	if !horizontal {
		lines, length = w, h
	}
	prefix := make([]int, length+1)
	for line := 0; line < lines; line++ {
		for c := 0; c < channels; c++ {
			idx := func(i int) int {
				if horizontal {
					return line*stride + i*channels + c
				}
				return i*stride + line*channels + c
			}
			for i := 0; i < length; i++ {
				prefix[i+1] = prefix[i] + int(src[idx(i)])
			}
			for i := 0; i < length; i++ {
				i0 := i - radius
				if i0 < 0 {
					i0 = 0
				}
				i1 := i + radius
				if i1 >= length {
					i1 = length - 1
				}
				sum := prefix[i1+1] - prefix[i0]
				count := i1 - i0 + 1
				dst[idx(i)] = uint8((sum + count/2) / count)
			}
		}
	}
}
