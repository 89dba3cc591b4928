package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader(`
# comment
Name: Mine
background: #102030
ButtonActive: red
Unknown: #000000
`))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Mine" {
		t.Fatalf("name %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Fatalf("background %v", th.Background)
	}
	if th.ButtonActive != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Fatalf("named colour %v", th.ButtonActive)
	}
	if th.CheckerDark != Default().CheckerDark {
		t.Fatal("unset field should keep its default")
	}
}

func TestParseRejectsBadColour(t *testing.T) {
	if _, err := Parse(strings.NewReader("Foreground: #12")); err == nil {
		t.Fatal("expected error")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	th := Default()
	th.StatusText = color.RGBA{1, 2, 3, 4}
	var sb strings.Builder
	for _, kv := range th.Fields() {
		sb.WriteString(kv[0] + ": " + kv[1] + "\n")
	}
	back, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	back.Name = th.Name
	if *back != *th {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, th)
	}
}

func TestLoaderSources(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	for _, name := range Builtin() {
		if _, err := l.Load(name); err != nil {
			t.Fatalf("builtin %s: %v", name, err)
		}
	}
	dark, err := l.Load("dark")
	if err != nil || dark.Name != "Dark" {
		t.Fatalf("dark = %+v, %v", dark, err)
	}
	mine, err := l.Load("mine")
	if err != nil || mine.Name != "Mine" {
		t.Fatalf("config dir theme = %+v, %v", mine, err)
	}
	byPath, err := l.Load(filepath.Join(dir, "mine.theme"))
	if err != nil || byPath.Name != "Mine" {
		t.Fatalf("path theme = %+v, %v", byPath, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Fatal("missing theme loaded")
	}
}
