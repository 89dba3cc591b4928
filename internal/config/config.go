package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/layerpaint/internal/render"
	"github.com/example/layerpaint/internal/theme"
	"github.com/example/layerpaint/internal/tool"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
	Import bool
}

// Config holds the application configuration.
type Config struct {
	Theme      string
	SaveDir    string
	Width      int
	Height     int
	Background color.RGBA

	Brush  tool.BrushParams
	Eraser tool.EraserParams
	Blur   tool.BlurParams
	Text   tool.TextParams

	Notify Notify
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:      "", // empty allows fallback to env and the default theme
		Width:      800,
		Height:     600,
		Background: color.RGBA{255, 255, 255, 255},
		Brush:      tool.DefaultBrushParams(),
		Eraser:     tool.DefaultEraserParams(),
		Blur:       tool.DefaultBlurParams(),
		Text:       tool.DefaultTextParams(),
		Themes:     make(map[string]*theme.Theme),
	}
}

// Section returns the tool parameters stored under [name].
func (c *Config) Section(name string) (tool.Configurable, bool) {
	switch name {
	case "brush":
		return &c.Brush, true
	case "eraser":
		return &c.Eraser, true
	case "blur":
		return &c.Blur, true
	case "text":
		return &c.Text, true
	}
	return nil, false
}

var toolSections = []string{"brush", "eraser", "blur", "text"}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "width = %d\n", c.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Height)
	fmt.Fprintf(&sb, "background = %s\n", render.FormatColor(c.Background))
	sb.WriteString("\n")

	for _, name := range toolSections {
		p, _ := c.Section(name)
		fmt.Fprintf(&sb, "[%s]\n", name)
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			if strings.ContainsAny(v, " \t") || v == "" {
				v = fmt.Sprintf("%q", v)
			}
			fmt.Fprintf(&sb, "%s = %s\n", k, v)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "import = %v\n", c.Notify.Import)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
