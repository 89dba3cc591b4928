package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/layerpaint/internal/config"
)

type configCmd struct {
	*root
	fs   *flag.FlagSet
	path string
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.StringVar(&c.path, "path", "", "file written by save (default: the loaded config, else the user config dir)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		fmt.Fprintln(c.stdout, c.savePath())
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	fmt.Fprint(c.stdout, c.root.config.String())
	return nil
}

// savePath is -path, the file the config was loaded from, or the default
// location.
func (c *configCmd) savePath() string {
	if c.path != "" {
		return c.path
	}
	if p := config.NewLoader(version, configPathOverride).GetConfigPath(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.savePath()
	if path == "" {
		return fmt.Errorf("no config path: set -path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(c.root.config.String()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(c.stdout, "Configuration saved to %s\n", path)
	return nil
}
