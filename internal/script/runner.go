package script

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/geom"
	"github.com/example/layerpaint/internal/tool"
)

// Runner executes commands against one editor.
type Runner struct {
	Editor *editor.Editor
	// Dir resolves relative paths given to open, import and export.
	Dir string
	// Out receives the output of layers and print.
	Out io.Writer
	// Load decodes images for open and import.
	Load func(path string) (image.Image, error)
	// Exported is called with the path of every written file.
	Exported func(path string)
}

// NewRunner returns a runner that loads with editor.LoadFile and discards
// output.
func NewRunner(e *editor.Editor) *Runner {
	return &Runner{Editor: e, Out: io.Discard, Load: editor.LoadFile}
}

// Run executes every command in order and stops at the first failure.
func (r *Runner) Run(cmds []Command) error {
	for _, c := range cmds {
		if err := r.Exec(c); err != nil {
			return err
		}
	}
	return nil
}

// RunScript parses and runs src.
func (r *Runner) RunScript(src io.Reader) error {
	cmds, err := Parse(src)
	if err != nil {
		return err
	}
	return r.Run(cmds)
}

// Exec runs a single command. Errors are wrapped in a *LineError.
func (r *Runner) Exec(c Command) error {
	if err := r.exec(c); err != nil {
		var le *LineError
		if errors.As(err, &le) {
			return err
		}
		return &LineError{Line: c.Line, Err: err}
	}
	return nil
}

func (r *Runner) exec(c Command) error {
	e := r.Editor
	switch c.Name {
	case "canvas":
		v, err := parseInts(c.Args)
		if err != nil {
			return err
		}
		if !e.NewProject(v[0], v[1]) {
			return fmt.Errorf("canvas: invalid size %dx%d", v[0], v[1])
		}
	case "open":
		img, err := r.load(c.Args[0])
		if err != nil {
			return err
		}
		if !e.OpenImage(editor.LayerName(c.Args[0]), img) {
			return fmt.Errorf("open %s: empty image", c.Args[0])
		}
	case "import":
		img, err := r.load(c.Args[0])
		if err != nil {
			return err
		}
		name := editor.LayerName(c.Args[0])
		if len(c.Args) > 1 {
			name = strings.Join(c.Args[1:], " ")
		}
		if e.ImportImage(name, img) == nil {
			return fmt.Errorf("import %s: empty image", c.Args[0])
		}
	case "layer":
		return r.layer(c.Args[0], c.Args[1:])
	case "tool":
		k, err := tool.ParseKind(c.Args[0])
		if err != nil {
			return err
		}
		return e.SelectTool(k)
	case "set":
		return r.set(c.Args[0], strings.Join(c.Args[1:], " "))
	case "down", "move", "up", "leave":
		v, err := parseFloats(c.Args)
		if err != nil {
			return err
		}
		r.pointer(c.Name, geom.Pt(v[0], v[1]))
	case "stroke":
		pts, err := parsePoints(c.Args)
		if err != nil {
			return err
		}
		t := e.Tools()
		t.PointerDown(pts[0])
		for _, p := range pts[1:] {
			t.PointerMove(p)
		}
		t.PointerUp(pts[len(pts)-1])
	case "crop":
		return r.crop(c.Args)
	case "select":
		return r.selection(c.Args)
	case "zoom":
		return r.zoom(c.Args)
	case "cancel":
		e.Cancel()
	case "export":
		path := r.path(c.Args[0])
		if err := e.ExportFile(path); err != nil {
			return err
		}
		if r.Exported != nil {
			r.Exported(path)
		}
	case "layers":
		r.printLayers()
	case "print":
		r.printTool()
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, c.Name)
	}
	return nil
}

func (r *Runner) path(p string) string {
	if r.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Dir, p)
}

func (r *Runner) load(p string) (image.Image, error) {
	load := r.Load
	if load == nil {
		load = editor.LoadFile
	}
	return load(r.path(p))
}

func (r *Runner) pointer(kind string, p geom.Point) {
	t := r.Editor.Tools()
	switch kind {
	case "down":
		t.PointerDown(p)
	case "move":
		t.PointerMove(p)
	case "up":
		t.PointerUp(p)
	case "leave":
		t.PointerLeave(p)
	}
}

// set applies "key value" to the active tool, or "tool.key value" to a named
// one.
func (r *Runner) set(key, value string) error {
	m := r.Editor.Tools()
	if name, k, ok := strings.Cut(key, "."); ok {
		kind, err := tool.ParseKind(name)
		if err != nil {
			return err
		}
		return m.SetOn(kind, k, value)
	}
	return m.Set(key, value)
}

func (r *Runner) layer(sub string, args []string) error {
	e := r.Editor
	store := e.Layers()
	sub = strings.ToLower(sub)
	want := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("layer %s: missing argument", sub)
		}
		return nil
	}
	switch sub {
	case "add", "new":
		e.AddLayer(strings.Join(args, " "))
	case "delete":
		if !e.DeleteLayer() {
			return errors.New("layer delete: cannot delete the last layer")
		}
	case "select":
		if err := want(1); err != nil {
			return err
		}
		v, err := parseInts(args[:1])
		if err != nil {
			return err
		}
		if !store.SetActive(v[0]) {
			return fmt.Errorf("layer select: no layer %d", v[0])
		}
	case "scale", "opacity":
		if err := want(1); err != nil {
			return err
		}
		v, err := parseFloats(args[:1])
		if err != nil {
			return err
		}
		var ok bool
		if sub == "scale" {
			ok = store.SetActiveScale(v[0])
		} else {
			ok = store.SetActiveOpacity(v[0])
		}
		if !ok {
			return fmt.Errorf("layer %s: rejected %v", sub, v[0])
		}
	case "toggle":
		i := store.ActiveIndex()
		if len(args) > 0 {
			v, err := parseInts(args[:1])
			if err != nil {
				return err
			}
			i = v[0]
		}
		if !store.ToggleVisible(i) {
			return fmt.Errorf("layer toggle: no layer %d", i)
		}
	case "rename":
		if err := want(2); err != nil {
			return err
		}
		v, err := parseInts(args[:1])
		if err != nil {
			return err
		}
		if !store.Rename(v[0], strings.Join(args[1:], " ")) {
			return fmt.Errorf("layer rename: no layer %d", v[0])
		}
	case "offset":
		if err := want(2); err != nil {
			return err
		}
		v, err := parseFloats(args[:2])
		if err != nil {
			return err
		}
		l := store.Active()
		if l == nil {
			return errors.New("layer offset: no active layer")
		}
		l.Translate(v[0], v[1])
		store.Changed()
	default:
		return fmt.Errorf("layer: unknown action %q", sub)
	}
	return nil
}

// crop accepts "confirm", "cancel" or a rectangle "x1 y1 x2 y2" which is
// dragged out with the crop tool and confirmed.
func (r *Runner) crop(args []string) error {
	e := r.Editor
	switch strings.ToLower(args[0]) {
	case "confirm":
		if !e.ConfirmCrop() {
			return errors.New("crop confirm: no pending rectangle")
		}
		return nil
	case "cancel":
		e.Tools().Crop.Cancel()
		return nil
	}
	if len(args) != 4 {
		return errors.New("crop: want confirm, cancel or x1 y1 x2 y2")
	}
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	if err := e.SelectTool(tool.KindCrop); err != nil {
		return err
	}
	c := e.Tools().Crop
	c.PointerDown(pts[0])
	c.PointerMove(pts[1])
	c.PointerUp(pts[1])
	if !e.ConfirmCrop() {
		return fmt.Errorf("crop: rectangle smaller than %dx%d", tool.MinCropSize, tool.MinCropSize)
	}
	return nil
}

// selection accepts "clear" or a polygon "x1 y1 x2 y2 x3 y3 ...".
func (r *Runner) selection(args []string) error {
	sel := r.Editor.Selection()
	if strings.EqualFold(args[0], "clear") {
		sel.Clear()
		r.Editor.Invalidate()
		return nil
	}
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	sel.Clear()
	sel.Begin(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		sel.Extend(p.X, p.Y)
	}
	ok := sel.Commit()
	r.Editor.Invalidate()
	if !ok {
		return errors.New("select: a selection needs at least three points")
	}
	return nil
}

// zoom accepts "in" or "out" with an optional screen anchor, or "reset".
func (r *Runner) zoom(args []string) error {
	e := r.Editor
	dir := 0
	switch strings.ToLower(args[0]) {
	case "in":
		dir = 1
	case "out":
		dir = -1
	case "reset":
		e.Viewport().Reset()
		e.Invalidate()
		return nil
	default:
		return fmt.Errorf("zoom: unknown direction %q", args[0])
	}
	var px, py float64
	switch len(args) {
	case 1:
	case 3:
		v, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		px, py = v[0], v[1]
	default:
		return errors.New("zoom: anchor needs x and y")
	}
	e.Zoom(dir, px, py)
	return nil
}

func (r *Runner) printLayers() {
	store := r.Editor.Layers()
	for i, l := range store.Layers() {
		mark := " "
		if i == store.ActiveIndex() {
			mark = "*"
		}
		vis := "visible"
		if !l.Visible {
			vis = "hidden"
		}
		w, h := l.Size()
		fmt.Fprintf(r.Out, "%s %d %q %dx%d at (%g,%g) scale %g opacity %g %s\n",
			mark, i, l.Name, w, h, l.X, l.Y, l.Scale, l.Opacity, vis)
	}
}

func (r *Runner) printTool() {
	m := r.Editor.Tools()
	fmt.Fprintf(r.Out, "tool %s\n", m.ActiveKind())
	c, ok := m.Active().(tool.Configurable)
	if !ok {
		return
	}
	for _, k := range c.Keys() {
		v, _ := c.Get(k)
		fmt.Fprintf(r.Out, "  %s = %s\n", k, v)
	}
}

func parsePoints(args []string) ([]geom.Point, error) {
	if len(args)%2 != 0 {
		return nil, errors.New("coordinates must come in x y pairs")
	}
	v, err := parseFloats(args)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		pts = append(pts, geom.Pt(v[i], v[i+1]))
	}
	return pts, nil
}
