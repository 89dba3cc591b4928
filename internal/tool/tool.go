// Package tool implements the pointer-driven editing tools. Every tool
// receives world coordinates and converts to the active layer's local space
// itself before touching pixels.
package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/layer"
	"github.com/example/layerpaint/internal/selection"
)

// Document is the editor state the tools operate on.
type Document interface {
	Layers() *layer.Store
	Selection() *selection.Region
	// ResizeCanvas changes the world size and resets the viewport.
	ResizeCanvas(w, h int)
	// Invalidate requests a recomposite.
	Invalidate()
}

// Cursor is the pointer affordance a tool asks for while active.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorNone
	CursorCrosshair
	CursorText
)

func (c Cursor) String() string {
	switch c {
	case CursorMove:
		return "move"
	case CursorNone:
		return "none"
	case CursorCrosshair:
		return "crosshair"
	case CursorText:
		return "text"
	}
	return "default"
}

// Tool is the capability set shared by all tools. Activate and Deactivate
// always leave the tool with no gesture in progress.
type Tool interface {
	Activate() Cursor
	Deactivate()
	PointerDown(p geom.Point)
	PointerMove(p geom.Point)
	PointerUp(p geom.Point)
	PointerLeave(p geom.Point)
}

// Configurable tools accept named parameter updates from the property panel
// or a script.
type Configurable interface {
	Set(key, value string) error
	Get(key string) (string, bool)
	Keys() []string
}

// Sized tools paint a round footprint; CursorRadius is its radius in world
// units so the UI can draw an outline cursor.
type Sized interface {
	CursorRadius() float64
}

// ErrUnknownParam is returned by Set for keys a tool does not have.
var ErrUnknownParam = errors.New("unknown parameter")

// Kind names one of the tools.
type Kind int

const (
	KindMove Kind = iota
	KindBrush
	KindEraser
	KindBlur
	KindCrop
	KindLasso
	KindText
	kindCount
)

var kindNames = [...]string{"move", "brush", "eraser", "blur", "crop", "lasso", "text"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every tool in toolbar order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind maps a tool name to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// paintable returns the active layer when tools may draw on it.
func paintable(doc Document) *layer.Layer {
	l := doc.Layers().Active()
	if !l.Paintable() {
		return nil
	}
	return l
}
