package main

import (
	"flag"

	"github.com/example/layerpaint/internal/appstate"
	"github.com/example/layerpaint/internal/capture"
	"github.com/example/layerpaint/internal/editor"
)

// editCmd opens the editor window.
type editCmd struct {
	*root
	fs      *flag.FlagSet
	file    string
	output  string
	width   int
	height  int
	display string
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.StringVar(&e.file, "file", "", "image to open as the background layer")
	fs.StringVar(&e.output, "output", "", "file written by ctrl+S (default: timestamped file in save_dir)")
	fs.IntVar(&e.width, "width", 0, "canvas width when no file is given (default from config)")
	fs.IntVar(&e.height, "height", 0, "canvas height when no file is given (default from config)")
	fs.StringVar(&e.display, "display", "", "monitor grabbed by ctrl+I: index, name or primary")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && fs.NArg() == 1 {
		e.file = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	ed, err := e.editor()
	if err != nil {
		return err
	}
	title := "LayerPaint"
	if e.file != "" {
		title += " - " + editor.LayerName(e.file)
	}
	st := appstate.New(ed,
		appstate.WithOutput(e.output),
		appstate.WithSaveDir(e.config.SaveDir),
		appstate.WithTheme(e.activeTheme),
		appstate.WithNotifier(e.notifier),
		appstate.WithCapture(capture.Options{Display: e.display}),
		appstate.WithTitle(title),
	)
	st.Run()
	return nil
}

func (e *editCmd) editor() (*editor.Editor, error) {
	ed := e.newEditor(e.width, e.height)
	if e.file != "" {
		if err := openFile(ed, e.file); err != nil {
			return nil, err
		}
	}
	return ed, nil
}
