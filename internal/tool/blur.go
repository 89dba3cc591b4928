package tool

import (
	"image"
	"image/draw"
	"math"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/render"
)

// blurScale converts intensity into a blur deviation in layer pixels.
const blurScale = 10

// Blur softens the layer under a round brush. Each dab blurs the current
// pixels again, so passing over an area repeatedly keeps softening it.
type Blur struct {
	Params BlurParams

	doc   Document
	ctx   *geom.Stack
	layer *layer.Layer
	buf   *image.RGBA
	clip  *image.Alpha
	last  geom.Point
}

// NewBlur returns a blur brush with default parameters.
func NewBlur(doc Document) *Blur {
	return &Blur{doc: doc, Params: DefaultBlurParams(), ctx: geom.NewStack()}
}

func (b *Blur) Activate() Cursor {
	b.end()
	return CursorNone
}

func (b *Blur) Deactivate() { b.end() }

func (b *Blur) end() {
	b.layer = nil
	b.buf = nil
	b.clip = nil
}

func (b *Blur) PointerDown(p geom.Point) {
	l := paintable(b.doc)
	if l == nil {
		return
	}
	b.layer = l
	b.buf = l.Buffer
	b.clip = b.doc.Selection().Mask(b.ctx, l.Inverse(), l.Buffer.Bounds())
	b.last = l.ToLocal(p)
	b.dab(b.last)
	b.doc.Invalidate()
}

func (b *Blur) PointerMove(p geom.Point) {
	if b.layer == nil {
		return
	}
	if b.layer.Buffer != b.buf {
		b.end()
		return
	}
	cur := b.layer.ToLocal(p)
	step := b.Params.Size / b.layer.Scale / 4
	dist := b.last.Dist(cur)
	if dist > step && step > 0 {
		dir := cur.Sub(b.last).Mul(1 / dist)
		for d := 0.0; d < dist; d += step {
			b.dab(b.last.Add(dir.Mul(d)))
		}
	} else {
		b.dab(cur)
	}
	b.last = cur
	b.doc.Invalidate()
}

func (b *Blur) PointerUp(geom.Point) { b.end() }

func (b *Blur) PointerLeave(p geom.Point) { b.PointerUp(p) }

// dab blurs the disc of diameter size/scale centred on c. Only a patch
// around the disc is blurred, padded so the blur sees real neighbours.
func (b *Blur) dab(c geom.Point) {
	radius := b.Params.Size / b.layer.Scale / 2
	sigma := b.Params.Intensity * blurScale
	disc := geom.Rect{Min: c, Max: c}.Inset(-radius).Bounds().Intersect(b.buf.Bounds())
	if disc.Empty() || sigma <= 0 {
		return
	}
	pad := int(math.Ceil(3 * sigma))
	pr := disc.Inset(-pad).Intersect(b.buf.Bounds())
	patch := image.NewRGBA(pr)
	draw.Draw(patch, pr, b.buf, pr.Min, draw.Src)
	render.BlurRGBA(patch, sigma)

	mask := render.CircleMask(c, radius, disc)
	if b.clip != nil {
		render.Intersect(mask, b.clip)
	}
	render.Lerp(b.buf, patch, mask)
}

// CursorRadius returns the blur brush radius in world units.
func (b *Blur) CursorRadius() float64 { return b.Params.Size / 2 }

func (b *Blur) Set(key, value string) error { return b.Params.Set(key, value) }

func (b *Blur) Get(key string) (string, bool) { return b.Params.Get(key) }

func (b *Blur) Keys() []string { return b.Params.Keys() }
