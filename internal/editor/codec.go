package editor

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/layerpaint/internal/logging"
)

// Format is a raster encoding the editor can write.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks an export format from a file extension, defaulting
// to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	}
	return FormatPNG
}

// Encode writes img in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 92})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported format %q", f)
}

// Decode reads any registered format: PNG, JPEG, GIF, BMP, TIFF or WebP.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	logging.Logger().Debug("decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}

// LoadFile decodes the image at path.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", path, err)
		}
	}()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LayerName derives a layer name from a file path.
func LayerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Export writes the flattened document to w.
func (e *Editor) Export(w io.Writer, f Format) error {
	return Encode(w, e.Flatten(), f)
}

// ExportFile writes the flattened document to path, choosing the format
// from the extension.
func (e *Editor) ExportFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := e.Export(f, FormatFromPath(path)); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logging.Logger().Info("exported", "path", path)
	return nil
}
