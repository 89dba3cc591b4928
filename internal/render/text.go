package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFamily is used when a requested family is unknown or empty.
const DefaultFamily = "Go"

type family struct {
	name string
	ttf  []byte

	once sync.Once
	font *opentype.Font
	err  error
}

var families = []*family{
	{name: "Go", ttf: goregular.TTF},
	{name: "Go Medium", ttf: gomedium.TTF},
	{name: "Go Bold", ttf: gobold.TTF},
	{name: "Go Italic", ttf: goitalic.TTF},
	{name: "Go Mono", ttf: gomono.TTF},
	{name: "Go Mono Bold", ttf: gomonobold.TTF},
	{name: "Go Smallcaps", ttf: gosmallcaps.TTF},
}

type faceKey struct {
	family string
	size   float64
}

var faces sync.Map // map[faceKey]font.Face

// Families lists the font families available to the text tool.
func Families() []string {
	out := make([]string, len(families))
	for i, f := range families {
		out[i] = f.name
	}
	return out
}

func lookupFamily(name string) *family {
	for _, f := range families {
		if strings.EqualFold(f.name, name) {
			return f
		}
	}
	return families[0]
}

// Face returns a cached face for family at size pixels. Unknown families
// fall back to DefaultFamily.
func Face(name string, size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	f := lookupFamily(name)
	key := faceKey{family: f.name, size: size}
	if face, ok := faces.Load(key); ok {
		return face.(font.Face), nil
	}
	f.once.Do(func() {
		f.font, f.err = opentype.Parse(f.ttf)
	})
	if f.err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.name, f.err)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	actual, _ := faces.LoadOrStore(key, face)
	return actual.(font.Face), nil
}

// DrawText renders text with its top-left corner at (x, y). Newlines start a
// new line one line-height below the previous one.
func DrawText(dst *image.RGBA, x, y float64, text string, col color.Color, face font.Face) {
	metrics := face.Metrics()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	top := fixed.Int26_6(math.Round(y * 64))
	for _, line := range strings.Split(text, "\n") {
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: top + metrics.Ascent}
		d.DrawString(line)
		top += metrics.Height
	}
}

// MeasureText returns the bounding size of text rendered with face.
func MeasureText(text string, face font.Face) (w, h int) {
	metrics := face.Metrics()
	lines := strings.Split(text, "\n")
	d := &font.Drawer{Face: face}
	for _, line := range lines {
		if lw := d.MeasureString(line).Ceil(); lw > w {
			w = lw
		}
	}
	h = (metrics.Height*fixed.Int26_6(len(lines)-1) + metrics.Ascent + metrics.Descent).Ceil()
	return w, h
}
