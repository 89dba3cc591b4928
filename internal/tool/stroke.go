package tool

import (
	"image"
	"image/draw"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/logging"
	"github.com/example/layerpaint/internal/render"
)

// stroke is the state shared by the brush and the eraser while the pointer
// is down. Coverage of the whole stroke is kept in cover and combined with
// max, and only the pixels around the newest segment are recomputed from a
// snapshot of the buffer, so overlapping segments never double up.
type stroke struct {
	layer  *layer.Layer
	buf    *image.RGBA
	before *image.RGBA
	cover  *image.Alpha
	clip   *image.Alpha
	ctx    *geom.Stack

	points  []geom.Point
	width   float64
	touched image.Rectangle
}

func (s *stroke) active() bool { return s.layer != nil }

// begin opens a stroke on l at the world point p. The selection clip is
// built once here, in l's local space.
func (s *stroke) begin(doc Document, l *layer.Layer, p geom.Point, size float64) {
	if s.ctx == nil {
		s.ctx = geom.NewStack()
	}
	s.layer = l
	s.buf = l.Buffer
	s.before = l.Snapshot()
	s.clip = doc.Selection().Mask(s.ctx, l.Inverse(), l.Buffer.Bounds())
	s.points = []geom.Point{l.ToLocal(p)}
	s.cover = image.NewAlpha(l.Buffer.Bounds())
	s.width = size / l.Scale
	s.touched = image.Rectangle{}
	logging.Logger().Debug("stroke begin", "layer", l.Name, "x", p.X, "y", p.Y, "width", s.width)
}

// end closes the stroke and drops the snapshot.
func (s *stroke) end() {
	if s.layer != nil {
		logging.Logger().Debug("stroke end", "layer", s.layer.Name, "points", len(s.points))
	}
	s.layer = nil
	s.buf = nil
	s.before = nil
	s.cover = nil
	s.clip = nil
	s.points = nil
}

// stale reports whether the layer's buffer was swapped out underneath the
// stroke, for example by a crop.
func (s *stroke) stale() bool {
	return s.layer.Buffer != s.buf
}

// smoothTowards is the lag filter: the drawn point moves from last towards
// target by (1-smoothing) of the distance. Zero smoothing draws the raw
// target.
func smoothTowards(last, target geom.Point, smoothing float64) geom.Point {
	if smoothing <= 0 {
		return target
	}
	return last.Add(target.Sub(last).Mul(1 - smoothing))
}

// extend adds the next drawn point for the world position p and returns it
// in local coordinates.
func (s *stroke) extend(p geom.Point, smoothing float64) geom.Point {
	last := s.points[len(s.points)-1]
	next := smoothTowards(last, s.layer.ToLocal(p), smoothing)
	s.points = append(s.points, next)
	return next
}

// paintSegment adds the newest segment to the stroke coverage and repaints
// the pixels around it with apply. sigma is the edge softening in local
// pixels.
func (s *stroke) paintSegment(sigma float64, apply func(dst *image.RGBA, mask *image.Alpha)) {
	n := len(s.points)
	if n < 2 {
		return
	}
	seg := s.points[n-2:]
	pad := s.width/2 + 3*sigma + 2
	r := geom.BoundsOf(seg).Inset(-pad).Bounds().Intersect(s.buf.Bounds())
	s.touched = r
	if r.Empty() {
		return
	}
	mask := render.StrokeMask(seg, s.width, r)
	if sigma > 0 {
		render.Union(mask, render.BlurAlpha(mask, sigma))
	}
	if s.clip != nil {
		render.Intersect(mask, s.clip)
	}
	render.Max(s.cover, mask)
	draw.Draw(s.buf, r, s.before, r.Min, draw.Src)
	apply(s.buf, s.cover.SubImage(r).(*image.Alpha))
}

// softSigma converts a softness fraction into a blur deviation in local
// pixels: the blur radius is softness*size/scale and the deviation is half
// of it.
func softSigma(softness, size, scale float64) float64 {
	if softness <= 0 {
		return 0
	}
	return softness * size / scale / 2
}
