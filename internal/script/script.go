// Package script replays line-oriented editing scripts against an editor.
//
// Each non-blank line is one command; '#' starts a comment. Coordinates are
// world coordinates, so a script draws the same thing whatever the zoom.
//
//	canvas 400 300
//	tool brush
//	set color #ff0000
//	stroke 10 10 200 10 200 150
//	export out.png
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Command is one parsed script line.
type Command struct {
	Line int
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// LineError ties a parse or execution failure to its script line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

var ErrUnknownCommand = errors.New("unknown command")

// arity bounds the argument count of each command; max < 0 is unbounded.
var arity = map[string]struct{ min, max int }{
	"canvas": {2, 2},
	"open":   {1, 1},
	"import": {1, -1},
	"layer":  {1, -1},
	"tool":   {1, 1},
	"set":    {2, -1},
	"down":   {2, 2},
	"move":   {2, 2},
	"up":     {2, 2},
	"leave":  {2, 2},
	"stroke": {4, -1},
	"crop":   {1, 4},
	"select": {1, -1},
	"zoom":   {1, 3},
	"cancel": {0, 0},
	"export": {1, 1},
	"layers": {0, 0},
	"print":  {0, 0},
}

// Commands lists the command names in alphabetical order.
func Commands() []string {
	names := make([]string, 0, len(arity))
	for name := range arity {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse reads a whole script. It checks command names and argument counts;
// argument values are checked when the command runs.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		cmd, ok, err := ParseLine(n, scanner.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

// ParseLine parses a single line. ok is false for blank and comment lines.
func ParseLine(n int, line string) (cmd Command, ok bool, err error) {
	line = stripComment(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false, nil
	}
	cmd = Command{Line: n, Name: strings.ToLower(fields[0]), Args: fields[1:]}
	a, known := arity[cmd.Name]
	if !known {
		return Command{}, false, &LineError{Line: n, Err: fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])}
	}
	if len(cmd.Args) < a.min || (a.max >= 0 && len(cmd.Args) > a.max) {
		return Command{}, false, &LineError{Line: n, Err: fmt.Errorf("%s: wrong number of arguments", cmd.Name)}
	}
	return cmd, true, nil
}

func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && !inColor(line, i) {
			return line[:i]
		}
	}
	return line
}

// inColor reports whether the '#' at i begins a hex colour argument rather
// than a comment.
func inColor(line string, i int) bool {
	if i > 0 && line[i-1] != ' ' && line[i-1] != '\t' {
		return true
	}
	end := i + 1
	for end < len(line) && isHex(line[end]) {
		end++
	}
	n := end - i - 1
	return (n == 6 || n == 8) && (end == len(line) || line[end] == ' ' || line[end] == '\t')
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = f
	}
	return out, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		out[i] = v
	}
	return out, nil
}
