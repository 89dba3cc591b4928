package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/example/layerpaint/internal/script"
)

// interactiveCmd reads script commands from stdin one line at a time and
// reports errors without stopping.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	file   string
	width  int
	height int
	execs  commandList
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs}
	fs.StringVar(&i.file, "file", "", "image to start from (default: blank canvas)")
	fs.IntVar(&i.width, "width", 0, "blank canvas width (default from config)")
	fs.IntVar(&i.height, "height", 0, "blank canvas height (default from config)")
	fs.Var(&i.execs, "e", "execute a command before reading stdin (may be specified multiple times)")
	fs.Usage = usageFunc(i)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	ed := i.newEditor(i.width, i.height)
	if i.file != "" {
		if err := openFile(ed, i.file); err != nil {
			return err
		}
	}
	runner := script.NewRunner(ed)
	runner.Out = i.stdout
	runner.Exported = func(path string) {
		fmt.Fprintf(i.stdout, "exported %s\n", path)
		i.notifyExport(path)
	}

	n := 0
	for _, line := range i.execs {
		n++
		if done := i.executeLine(runner, n, line); done {
			return nil
		}
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		n++
		if done := i.executeLine(runner, n, scanner.Text()); done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one line and reports whether the session should end.
func (i *interactiveCmd) executeLine(runner *script.Runner, n int, line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(i.stdout, "commands: "+strings.Join(script.Commands(), ", "))
		return false
	}
	cmd, ok, err := script.ParseLine(n, line)
	if err != nil {
		fmt.Fprintln(i.stderr, err)
		return false
	}
	if !ok {
		return false
	}
	if err := runner.Exec(cmd); err != nil {
		fmt.Fprintln(i.stderr, err)
	}
	return false
}
