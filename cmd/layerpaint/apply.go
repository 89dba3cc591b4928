package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/layerpaint/internal/script"
)

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// applyCmd runs an editing script headlessly.
type applyCmd struct {
	*root
	fs         *flag.FlagSet
	file       string
	scriptPath string
	output     string
	width      int
	height     int
	execs      commandList
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	a := &applyCmd{root: r, fs: fs}
	fs.StringVar(&a.file, "file", "", "image to start from (default: blank canvas)")
	fs.StringVar(&a.scriptPath, "script", "", "script file to run, - for stdin")
	fs.StringVar(&a.output, "output", "", "write the result here after the script finishes")
	fs.IntVar(&a.width, "width", 0, "blank canvas width (default from config)")
	fs.IntVar(&a.height, "height", 0, "blank canvas height (default from config)")
	fs.Var(&a.execs, "e", "run a single script command (may be specified multiple times)")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.scriptPath == "" && fs.NArg() == 1 {
		a.scriptPath = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	if a.scriptPath == "" && len(a.execs) == 0 {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *applyCmd) Run() error {
	ed := a.newEditor(a.width, a.height)
	if a.file != "" {
		if err := openFile(ed, a.file); err != nil {
			return err
		}
	}
	runner := script.NewRunner(ed)
	runner.Out = a.stdout
	runner.Exported = a.notifyExport

	if a.scriptPath != "" {
		src, closeFn, err := a.openScript()
		if err != nil {
			return err
		}
		err = runner.RunScript(src)
		closeFn()
		if err != nil {
			return fmt.Errorf("%s: %w", a.scriptName(), err)
		}
	}
	for i, line := range a.execs {
		cmd, ok, err := script.ParseLine(i+1, line)
		if err != nil {
			return fmt.Errorf("-e: %w", err)
		}
		if !ok {
			continue
		}
		if err := runner.Exec(cmd); err != nil {
			return fmt.Errorf("-e: %w", err)
		}
	}

	if a.output == "" {
		return nil
	}
	if err := ed.ExportFile(a.output); err != nil {
		return err
	}
	a.notifyExport(a.output)
	return nil
}

func (a *applyCmd) scriptName() string {
	if a.scriptPath == "-" {
		return "stdin"
	}
	return a.scriptPath
}

func (a *applyCmd) openScript() (io.Reader, func(), error) {
	if a.scriptPath == "-" {
		if a.stdin == nil {
			return nil, nil, errors.New("no standard input")
		}
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(a.scriptPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}
