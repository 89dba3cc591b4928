// Package appstate runs the editor window: a toolbar of tools, the canvas
// view, a layer panel and a status bar.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/layerpaint/internal/capture"
	"github.com/example/layerpaint/internal/clipboard"
	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/notify"
	"github.com/example/layerpaint/internal/theme"
)

// AppState holds application configuration for the UI.
type AppState struct {
	Editor *editor.Editor
	// Output is where ctrl+S saves. Empty means a timestamped file in
	// SaveDir.
	Output   string
	SaveDir  string
	Title    string
	Theme    *theme.Theme
	Notifier *notify.Notifier
	Capture  capture.Options

	writeClipboard func(image.Image) error
	readClipboard  func() (image.Image, error)
	readText       func() (string, error)
	captureScreen  func() (*image.RGBA, error)

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the file ctrl+S writes.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory for timestamped exports.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sends desktop notifications for exports, copies and imports.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithCapture configures screen grabs imported with ctrl+I.
func WithCapture(opts capture.Options) Option { return func(a *AppState) { a.Capture = opts } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for ed. A nil editor gets a default canvas.
func New(ed *editor.Editor, opts ...Option) *AppState {
	if ed == nil {
		ed = editor.New(0, 0)
	}
	a := &AppState{
		Editor:         ed,
		Title:          "LayerPaint",
		Theme:          theme.Default(),
		writeClipboard: clipboard.WriteImage,
		readClipboard:  clipboard.ReadImage,
		readText:       clipboard.ReadText,
	}
	a.captureScreen = func() (*image.RGBA, error) { return capture.Screen(a.Capture) }
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	fitToolbar()
	cw, ch := a.Editor.Size()
	width, height := windowSize(cw, ch)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.Editor.Updates():
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	u := newUI(a)
	u.width, u.height = width, height
	u.repaint = func() { w.Send(paint.Event{}) }

	p := newPainter(a.Theme)
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, p, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			u.width = e.WidthPx
			u.height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := u.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if u.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if u.handleKey(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

// expireMessage schedules the repaint that hides a message.
func (u *ui) expireMessage() {
	if u.repaint != nil {
		time.AfterFunc(messageDuration+50*time.Millisecond, u.repaint)
	}
}
