package notify

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/layerpaint/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var got []sent
	n.send = func(title, body string, opts platform.Options) error {
		if opts.IconPath != "" {
			if _, err := os.Stat(opts.IconPath); err != nil {
				opts.IconPath = "missing"
			}
		}
		got = append(got, sent{title, body, opts})
		return nil
	}
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Export("a.png")
	n.Copy("")
	n.Import("x", nil)
	if len(*got) != 0 {
		t.Fatalf("sent %v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Copy("image")
}

func TestEnabledEvents(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	for _, e := range Events() {
		n.Enable(e, true)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n.Export(path)
	n.Copy("")
	n.Import("sticker", image.NewRGBA(image.Rect(0, 0, 2, 2)))

	if len(*got) != 3 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	if (*got)[0].body != "Exported "+path || (*got)[0].opts.IconPath != path {
		t.Fatalf("export notification %+v", (*got)[0])
	}
	if (*got)[1].body != "Copied image to clipboard" {
		t.Fatalf("copy notification %+v", (*got)[1])
	}
	imp := (*got)[2]
	if imp.body != "Imported sticker as a new layer" || imp.opts.IconPath == "" || imp.opts.IconPath == "missing" {
		t.Fatalf("import notification %+v", imp)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("LAYERPAINT_NOTIFY_TITLE", "Paint")
	t.Setenv("LAYERPAINT_NOTIFY_COPY_TEXT", "Clipboard now has %s")
	prefs := LoadPreferences()
	if prefs.Title != "Paint" {
		t.Fatalf("title %q", prefs.Title)
	}
	if prefs.Events[EventCopy].Template != "Clipboard now has %s" {
		t.Fatalf("copy template %q", prefs.Events[EventCopy].Template)
	}
	if prefs.Events[EventExport].Template != DefaultPreferences().Events[EventExport].Template {
		t.Fatal("export template should keep its default")
	}
}
