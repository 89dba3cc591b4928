package appstate

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/layerpaint/internal/tool"
)

// exportPath is the configured output, or a timestamped PNG in SaveDir.
func (a *AppState) exportPath(now time.Time) string {
	if a.Output != "" {
		return a.Output
	}
	name := fmt.Sprintf("layerpaint-%s.png", now.Format("20060102-150405"))
	return filepath.Join(a.SaveDir, name)
}

func (u *ui) export() {
	path := u.app.exportPath(u.now())
	if err := u.ed.ExportFile(path); err != nil {
		u.say("export failed: %v", err)
		return
	}
	u.say("saved %s", path)
	if n := u.app.Notifier; n != nil {
		go n.Export(path)
	}
}

func (u *ui) copy() {
	img := u.ed.Flatten()
	if err := u.app.writeClipboard(img); err != nil {
		u.say("copy failed: %v", err)
		return
	}
	u.say("image copied to clipboard")
	if n := u.app.Notifier; n != nil {
		go n.Copy(fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	}
}

// paste imports the clipboard image as a new layer. With the text tool
// active the clipboard text is appended to its content instead.
func (u *ui) paste() {
	if u.ed.Tools().ActiveKind() == tool.KindText {
		u.pasteText()
		return
	}
	img, err := u.app.readClipboard()
	if err != nil {
		u.say("paste failed: %v", err)
		return
	}
	u.importLayer("Pasted", img)
}

func (u *ui) pasteText() {
	text, err := u.app.readText()
	if err != nil {
		u.say("paste failed: %v", err)
		return
	}
	// Stamped text is a single line.
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		u.say("clipboard has no text")
		return
	}
	u.ed.Tools().Text.Params.Content += text
	u.ed.Invalidate()
}

// capture grabs the desktop into a new layer.
func (u *ui) capture() {
	img, err := u.app.captureScreen()
	if err != nil {
		u.say("capture failed: %v", err)
		return
	}
	u.importLayer("Screenshot", img)
}

func (u *ui) importLayer(name string, img image.Image) {
	l := u.ed.ImportImage(name, img)
	if l == nil {
		u.say("%s: empty image", name)
		return
	}
	u.say("imported %s", l.Name)
	if n := u.app.Notifier; n != nil {
		go n.Import(l.Name, img)
	}
}
