// Package raster decodes image headers for best-effort dimensions and
// orientation when embedded tags do not carry them.
package raster

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info is what a header decode could determine. Nil fields are unknown.
type Info struct {
	Width       *int
	Height      *int
	Orientation *string
}

// HeaderDecoder reads only the image header. Formats without a registered
// decoder are reported as errors.
type HeaderDecoder struct{}

// Decode returns the dimensions and EXIF orientation of the image at path.
func (HeaderDecoder) Decode(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var info Info
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		info.Width = &cfg.Width
		info.Height = &cfg.Height
	}

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		info.Orientation = orientation(f)
	}
	return info, nil
}

func orientation(r io.Reader) *string {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	s := strconv.Itoa(v)
	return &s
}
