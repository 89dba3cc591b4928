package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/layerpaint/internal/config"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	exportAlerts bool
	copyAlerts   bool
	importAlerts bool
	verbose      bool
	themeName    string
	activeTheme  *theme.Theme

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// subcommand returns a copy of r that reports "program name" in help text.
func (r *root) subcommand(name string) *root {
	sub := *r
	sub.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &sub
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("layerpaint", flag.ExitOnError),
		program:  "layerpaint",
		notifier: notify.New(prefs),
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.importAlerts, "notify-import", cfg.Notify.Import, "show a desktop notification after importing a layer")
	r.fs.BoolVar(&r.verbose, "v", false, "log editor activity to stderr")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Builtin(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolveTheme picks the theme by flag, LAYERPAINT_THEME, config and finally
// the built-in default.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("LAYERPAINT_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventImport, r.importAlerts)
	}
	if r.verbose {
		editor.SetLogger(slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r.subcommand("edit"))
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r.subcommand("apply"))
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r.subcommand("interactive"))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand("config"))
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// newEditor builds an editor from the configured defaults. Non-positive
// sizes fall back to the configured canvas size.
func (r *root) newEditor(w, h int) *editor.Editor {
	cfg := r.config
	if cfg == nil {
		cfg = config.New()
	}
	if w <= 0 {
		w = cfg.Width
	}
	if h <= 0 {
		h = cfg.Height
	}
	return editor.New(w, h,
		editor.WithBackground(cfg.Background),
		editor.WithBrush(cfg.Brush),
		editor.WithEraser(cfg.Eraser),
		editor.WithBlur(cfg.Blur),
		editor.WithText(cfg.Text),
	)
}

// openFile replaces the document with the image at path.
func openFile(e *editor.Editor, path string) error {
	img, err := editor.LoadFile(path)
	if err != nil {
		return err
	}
	if !e.OpenImage(editor.LayerName(path), img) {
		return fmt.Errorf("open %s: empty image", path)
	}
	return nil
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}
