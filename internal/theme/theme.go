package theme

import (
	"image/color"
)

// Theme defines the color palette for the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the canvas
	Foreground color.RGBA // main text colour

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonActive          color.RGBA // selected tool
	ButtonText            color.RGBA
	ButtonTextActive      color.RGBA
	ButtonBorder          color.RGBA

	// Layer panel
	PanelBackground color.RGBA
	LayerActive     color.RGBA
	LayerText       color.RGBA
	LayerHidden     color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Canvas
	CanvasBorder  color.RGBA
	CursorOutline color.RGBA
	CheckerLight  color.RGBA
	CheckerDark   color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{200, 200, 200, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{235, 235, 235, 255},
		ButtonBackgroundHover: color.RGBA{210, 210, 210, 255},
		ButtonActive:          color.RGBA{70, 130, 180, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextActive:      color.RGBA{255, 255, 255, 255},
		ButtonBorder:          color.RGBA{120, 120, 120, 255},
		PanelBackground:       color.RGBA{230, 230, 230, 255},
		LayerActive:           color.RGBA{190, 210, 235, 255},
		LayerText:             color.RGBA{0, 0, 0, 255},
		LayerHidden:           color.RGBA{140, 140, 140, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		StatusText:            color.RGBA{40, 40, 40, 255},
		CanvasBorder:          color.RGBA{90, 90, 90, 255},
		CursorOutline:         color.RGBA{0, 0, 0, 200},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
