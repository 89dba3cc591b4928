// Package clipboard moves images and text between the editor and the
// desktop clipboard.
package clipboard

import "errors"

var (
	// ErrNoImage means the clipboard holds no image data.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrNoText means the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text data")
)
