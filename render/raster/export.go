package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ErrExportUnsupported is returned when a renderer cannot provide an image.
var ErrExportUnsupported = errors.New("renderer does not support image export")

// ImageSource is implemented by renderers that can hand out their frame.
type ImageSource interface {
	Image() image.Image
}

// ExportPNG encodes the current frame of r as PNG. Renderers without an
// image yield ErrExportUnsupported; the running computation is unaffected.
func ExportPNG(r any, w io.Writer) error {
	src, ok := r.(ImageSource)
	if !ok {
		return fmt.Errorf("export %T: %w", r, ErrExportUnsupported)
	}
	if err := png.Encode(w, src.Image()); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}
