package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/layerpaint/internal/theme"
	"github.com/example/layerpaint/internal/tool"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	// StateActive marks the selected tool.
	StateActive
	stateCount
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [stateCount]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [stateCount]*image.RGBA{}
	}
}

// ToolButton selects a tool. Its colours come from the theme.
type ToolButton struct {
	label string
	kind  tool.Kind
	th    *theme.Theme
	rect  image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func(tool.Kind)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := tb.th.ButtonBackground, tb.th.ButtonText
	switch state {
	case StateHover:
		bg = tb.th.ButtonBackgroundHover
	case StatePressed, StateActive:
		bg, fg = tb.th.ButtonActive, tb.th.ButtonTextActive
	}
	draw.Draw(dst, tb.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, tb.rect, tb.th.ButtonBorder, 1)
	drawLabel(dst, tb.label, tb.rect.Min.X+4, tb.rect.Min.Y+16, fg)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.kind)
	}
}

func drawLabel(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}
