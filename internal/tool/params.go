package tool

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/example/layerpaint/internal/render"
)

// BrushParams configures the brush. Smoothing is the stroke lag filter and
// Softness the edge blur; both are fractions in [0,1).
type BrushParams struct {
	Size      float64
	Color     color.RGBA
	Opacity   float64
	Smoothing float64
	Softness  float64
}

func DefaultBrushParams() BrushParams {
	return BrushParams{Size: 10, Color: color.RGBA{A: 255}, Opacity: 1}
}

// EraserParams configures the eraser. It has no colour or opacity.
type EraserParams struct {
	Size      float64
	Smoothing float64
	Softness  float64
}

func DefaultEraserParams() EraserParams {
	return EraserParams{Size: 20}
}

// BlurParams configures the blur brush. Intensity scales the blur radius.
type BlurParams struct {
	Size      float64
	Intensity float64
}

func DefaultBlurParams() BlurParams {
	return BlurParams{Size: 30, Intensity: 0.5}
}

// TextParams configures the text tool. Size is in layer pixels.
type TextParams struct {
	Content string
	Size    float64
	Family  string
	Color   color.RGBA
}

func DefaultTextParams() TextParams {
	return TextParams{Content: "Text", Size: 40, Family: render.DefaultFamily, Color: color.RGBA{A: 255}}
}

// maxSmoothing keeps the lag filter from stalling completely.
const maxSmoothing = 0.95

func parseSize(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", v, err)
	}
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("size must be positive, got %v", f)
	}
	return f, nil
}

func parseFraction(name, v string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, v, err)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%s is not a number", name)
	}
	return math.Max(0, math.Min(limit, f)), nil
}

// into assigns a parsed value only when parsing succeeded.
func into[T any](dst *T) func(T, error) error {
	return func(v T, err error) error {
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// Set parses v into the parameter named key.
func (p *BrushParams) Set(key, v string) error {
	switch key {
	case "size":
		return into(&p.Size)(parseSize(v))
	case "color":
		return into(&p.Color)(render.ParseColor(v))
	case "opacity":
		return into(&p.Opacity)(parseFraction(key, v, 1))
	case "smoothing":
		return into(&p.Smoothing)(parseFraction(key, v, maxSmoothing))
	case "softness":
		return into(&p.Softness)(parseFraction(key, v, 1))
	}
	return fmt.Errorf("brush %s: %w", key, ErrUnknownParam)
}

func (p BrushParams) Get(key string) (string, bool) {
	switch key {
	case "size":
		return formatFloat(p.Size), true
	case "color":
		return render.FormatColor(p.Color), true
	case "opacity":
		return formatFloat(p.Opacity), true
	case "smoothing":
		return formatFloat(p.Smoothing), true
	case "softness":
		return formatFloat(p.Softness), true
	}
	return "", false
}

func (p *EraserParams) Set(key, v string) error {
	switch key {
	case "size":
		return into(&p.Size)(parseSize(v))
	case "smoothing":
		return into(&p.Smoothing)(parseFraction(key, v, maxSmoothing))
	case "softness":
		return into(&p.Softness)(parseFraction(key, v, 1))
	}
	return fmt.Errorf("eraser %s: %w", key, ErrUnknownParam)
}

func (p EraserParams) Get(key string) (string, bool) {
	switch key {
	case "size":
		return formatFloat(p.Size), true
	case "smoothing":
		return formatFloat(p.Smoothing), true
	case "softness":
		return formatFloat(p.Softness), true
	}
	return "", false
}

func (p *BlurParams) Set(key, v string) error {
	switch key {
	case "size":
		return into(&p.Size)(parseSize(v))
	case "intensity":
		return into(&p.Intensity)(parseFraction(key, v, 1))
	}
	return fmt.Errorf("blur %s: %w", key, ErrUnknownParam)
}

func (p BlurParams) Get(key string) (string, bool) {
	switch key {
	case "size":
		return formatFloat(p.Size), true
	case "intensity":
		return formatFloat(p.Intensity), true
	}
	return "", false
}

func (p *TextParams) Set(key, v string) error {
	switch key {
	case "text":
		p.Content = v
		return nil
	case "size":
		return into(&p.Size)(parseSize(v))
	case "font":
		p.Family = v
		return nil
	case "color":
		return into(&p.Color)(render.ParseColor(v))
	}
	return fmt.Errorf("text %s: %w", key, ErrUnknownParam)
}

func (p TextParams) Get(key string) (string, bool) {
	switch key {
	case "text":
		return p.Content, true
	case "size":
		return formatFloat(p.Size), true
	case "font":
		return p.Family, true
	case "color":
		return render.FormatColor(p.Color), true
	}
	return "", false
}

func (BrushParams) Keys() []string {
	return sortedKeys("size", "color", "opacity", "smoothing", "softness")
}

func (EraserParams) Keys() []string { return sortedKeys("size", "smoothing", "softness") }

func (BlurParams) Keys() []string { return sortedKeys("size", "intensity") }

func (TextParams) Keys() []string { return sortedKeys("color", "font", "size", "text") }
