//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest     = "org.freedesktop.portal.Desktop"
	portalPath     = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalResponse = "org.freedesktop.portal.Request.Response"
)

var portalHandleToken = func() string {
	return fmt.Sprintf("layerpaint_%d", time.Now().UnixNano())
}

func portalScreenshot(interactive, cursor bool) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalPath).Call("org.freedesktop.portal.Screenshot.Screenshot", 0,
		"", portalScreenshotOptions(interactive, cursor))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	for sig := range sigc {
		if sig.Path != handle || sig.Name != portalResponse {
			continue
		}
		path, err := portalResult(sig.Body)
		if err != nil {
			return nil, err
		}
		return loadPNG(path)
	}
	return nil, fmt.Errorf("portal screenshot: connection closed")
}

func portalScreenshotOptions(interactive, cursor bool) map[string]dbus.Variant {
	mode := "hidden"
	if cursor {
		mode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"cursor_mode":  dbus.MakeVariant(mode),
	}
}

// portalResult extracts the file path from a Response signal body of
// (response uint32, results map).
func portalResult(body []any) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: cancelled (response %d)", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed results")
	}
	v, ok := res["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image data")
	}
	raw, _ := v.Value().(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("portal screenshot: unexpected uri %q", raw)
	}
	return u.Path, nil
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
