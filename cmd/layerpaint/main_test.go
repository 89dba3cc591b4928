package main

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/layerpaint/internal/config"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/theme"
)

type testIO struct {
	stdout, stderr bytes.Buffer
}

func newTestRoot(t *testing.T, stdin string) (*root, *testIO) {
	t.Helper()
	t.Setenv("LAYERPAINT_THEME", "")
	out := &testIO{}
	r := &root{
		program: "layerpaint",
		config:  config.New(),
		stdin:   strings.NewReader(stdin),
		stdout:  &out.stdout,
		stderr:  &out.stderr,
	}
	return r, out
}

func TestApplyScriptExports(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "red.lps")
	src := "canvas 20 20\ntool brush\nset color #ff0000\nset size 6\nstroke 0 10 20 10\n"
	if err := os.WriteFile(scriptPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")
	r, _ := newTestRoot(t, "")
	cmd, err := parseApplyCmd([]string{"-output", out, scriptPath}, r.subcommand("apply"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	img, err := editor.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := img.At(10, 10).RGBA(); r != 0xffff || g != 0 || b != 0 {
		t.Fatalf("pixel %v", img.At(10, 10))
	}
	if img.Bounds().Dx() != 20 {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

func TestApplyStdinAndExecs(t *testing.T) {
	r, io := newTestRoot(t, "layer add Ink\n")
	cmd, err := parseApplyCmd([]string{"-width", "30", "-height", "20", "-script", "-", "-e", "layers"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	listing := io.stdout.String()
	if !strings.Contains(listing, `"Ink"`) || !strings.Contains(listing, `"Background" 30x20`) {
		t.Fatalf("listing:\n%s", listing)
	}
}

func TestApplyErrors(t *testing.T) {
	r, _ := newTestRoot(t, "")
	_, err := parseApplyCmd(nil, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.lps")
	if err := os.WriteFile(bad, []byte("canvas 10 10\nlayer select 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseApplyCmd([]string{bad}, r)
	if err != nil {
		t.Fatal(err)
	}
	err = cmd.Run()
	if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), bad) {
		t.Fatalf("expected line 2 error naming the script, got %v", err)
	}

	cmd, err = parseApplyCmd([]string{filepath.Join(dir, "missing.lps")}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestInteractiveContinuesAfterErrors(t *testing.T) {
	r, io := newTestRoot(t, "bogus\nlayer add Ink\nlayers\nexit\nlayers\n")
	cmd, err := parseInteractiveCmd([]string{"-width", "10", "-height", "10"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(io.stderr.String(), "unknown command") {
		t.Fatalf("stderr: %q", io.stderr.String())
	}
	if n := strings.Count(io.stdout.String(), `"Background"`); n != 1 {
		t.Fatalf("listed %d times; commands after exit must not run:\n%s", n, io.stdout.String())
	}
	if !strings.Contains(io.stdout.String(), `"Ink"`) {
		t.Fatal("layer add lost after an error")
	}
}

func TestInteractiveHelp(t *testing.T) {
	r, io := newTestRoot(t, "help\n")
	cmd, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(io.stdout.String(), "stroke") {
		t.Fatalf("help output %q", io.stdout.String())
	}
}

func TestResolveThemePrecedence(t *testing.T) {
	r, _ := newTestRoot(t, "")
	if got := r.resolveTheme(); got.Name != theme.Default().Name {
		t.Fatalf("default theme %q", got.Name)
	}

	r.config.Theme = "dark"
	if got := r.resolveTheme(); got.Name != "Dark" {
		t.Fatalf("config theme %q", got.Name)
	}

	t.Setenv("LAYERPAINT_THEME", "high_contrast")
	if got := r.resolveTheme(); got.Name != "High Contrast" {
		t.Fatalf("env theme %q", got.Name)
	}

	custom := theme.Default()
	custom.Name = "Mine"
	r.config.Themes["mine"] = custom
	r.themeName = "mine"
	if got := r.resolveTheme(); got != custom {
		t.Fatalf("flag theme %q", got.Name)
	}
}

func TestNewEditorUsesConfig(t *testing.T) {
	r, _ := newTestRoot(t, "")
	r.config.Width, r.config.Height = 64, 48
	r.config.Background = color.RGBA{0, 0, 255, 255}
	r.config.Brush.Size = 33
	e := r.newEditor(0, 0)
	if w, h := e.Size(); w != 64 || h != 48 {
		t.Fatalf("size %dx%d", w, h)
	}
	if got := e.Flatten().RGBAAt(1, 1); got != r.config.Background {
		t.Fatalf("background %v", got)
	}
	if e.Tools().Brush.Params.Size != 33 {
		t.Fatal("brush size from config ignored")
	}
	if w, _ := r.newEditor(10, 10).Size(); w != 10 {
		t.Fatal("explicit size ignored")
	}
}

func TestConfigAndVersion(t *testing.T) {
	r, io := newTestRoot(t, "")
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(io.stdout.String(), "width = 800") {
		t.Fatalf("config print:\n%s", io.stdout.String())
	}

	path := filepath.Join(t.TempDir(), "sub", "config.rc")
	cmd, err = parseConfigCmd([]string{"-path", path, "save"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := config.Parse(f); err != nil {
		t.Fatalf("saved config does not parse: %v", err)
	}

	io.stdout.Reset()
	v := &versionCmd{root: r}
	if err := v.Run(); err != nil {
		t.Fatal(err)
	}
	if got := io.stdout.String(); got != "layerpaint version dev\n" {
		t.Fatalf("version %q", got)
	}
}

func TestUsageErrorRendersHelp(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	r := newRoot()
	err := r.Run(nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: layerpaint", "-theme", "interactive"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help missing %q:\n%s", want, help)
		}
	}

	sub, err := parseEditCmd(nil, r.subcommand("edit"))
	if err != nil {
		t.Fatal(err)
	}
	help = (&UsageError{of: sub}).Error()
	if !strings.Contains(help, "Usage: layerpaint edit") || !strings.Contains(help, "-display") {
		t.Fatalf("edit help:\n%s", help)
	}
}
