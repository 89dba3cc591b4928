//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("screen capture is not supported on this platform")

func x11Screen() (*image.RGBA, error) { return nil, errUnsupported }

func portalScreenshot(bool, bool) (*image.RGBA, error) { return nil, errUnsupported }

func listMonitors() ([]MonitorInfo, error) { return nil, errUnsupported }
