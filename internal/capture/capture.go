// Package capture grabs the desktop so it can be imported as a layer.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"strconv"
	"strings"
)

// Options selects what to grab.
type Options struct {
	// Display picks a monitor: "", "primary", an index, "#index" or part
	// of the output name. Empty means the whole desktop.
	Display string
	// Interactive lets the user choose a region through the desktop portal.
	Interactive   bool
	IncludeCursor bool
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

var (
	x11ScreenFn        = x11Screen
	portalScreenshotFn = portalScreenshot
	listMonitorsFn     = listMonitors
)

// Screen captures the desktop. On X11 the root window is read directly;
// under Wayland, or when that fails, the screenshot portal is asked instead.
func Screen(opts Options) (*image.RGBA, error) {
	img, err := grab(opts)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	if opts.Display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, mon.Rect)
}

func grab(opts Options) (*image.RGBA, error) {
	if opts.Interactive || runningOnWayland() {
		return portalScreenshotFn(opts.Interactive, opts.IncludeCursor)
	}
	img, xErr := x11ScreenFn()
	if xErr == nil {
		return img, nil
	}
	img, err := portalScreenshotFn(false, opts.IncludeCursor)
	if err != nil {
		return nil, fmt.Errorf("x11: %v; portal: %w", xErr, err)
	}
	return img, nil
}

func runningOnWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != "" || strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
}

// ListMonitors returns the connected monitors.
func ListMonitors() ([]MonitorInfo, error) {
	monitors, err := listMonitorsFn()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	lower := strings.ToLower(strings.TrimSpace(selector))
	switch lower {
	case "":
		return monitors[0], nil
	case "primary":
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(lower, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
