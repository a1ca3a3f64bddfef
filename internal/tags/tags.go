package tags

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// Tags is the subset of embedded metadata the extractors consume.
type Tags struct {
	DateTimeOriginal *time.Time
	CreateDate       *time.Time
	ModifyDate       *time.Time

	Make         *string
	Model        *string
	LensModel    *string
	ExposureTime *string
	FNumber      *float64
	FocalLength  *string
	ISO          *int
	Orientation  *string

	ExifImageWidth  *int
	ExifImageHeight *int
	ImageWidth      *int
	ImageHeight     *int

	Latitude  *float64
	Longitude *float64

	ContentIdentifier *string
}

// HasGPS reports whether both coordinates are present.
func (t *Tags) HasGPS() bool {
	return t != nil && t.Latitude != nil && t.Longitude != nil
}

// ExifReader reads tags from JPEG and TIFF containers.
type ExifReader struct{}

// Read opens path and decodes its embedded tags.
func (ExifReader) Read(ctx context.Context, path string) (*Tags, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses embedded tags from r. Non-critical decode errors are
// tolerated and whatever was readable is returned.
func Decode(r io.Reader) (*Tags, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	return fromExif(x), nil
}

func fromExif(x *exif.Exif) *Tags {
	t := &Tags{
		DateTimeOriginal:  timeTag(x, exif.DateTimeOriginal),
		CreateDate:        timeTag(x, exif.DateTimeDigitized),
		ModifyDate:        timeTag(x, exif.DateTime),
		Make:              stringTag(x, exif.Make),
		Model:             stringTag(x, exif.Model),
		LensModel:         stringTag(x, exif.LensModel),
		ExposureTime:      exposureTag(x),
		FNumber:           floatTag(x, exif.FNumber),
		FocalLength:       focalLengthTag(x),
		ISO:               intTag(x, exif.ISOSpeedRatings),
		ExifImageWidth:    intTag(x, exif.PixelXDimension),
		ExifImageHeight:   intTag(x, exif.PixelYDimension),
		ImageWidth:        intTag(x, exif.ImageWidth),
		ImageHeight:       intTag(x, exif.ImageLength),
		ContentIdentifier: stringTag(x, ContentIdentifier),
	}
	if o := intTag(x, exif.Orientation); o != nil {
		s := strconv.Itoa(*o)
		t.Orientation = &s
	}
	if lat, lon, err := x.LatLong(); err == nil {
		t.Latitude, t.Longitude = &lat, &lon
	}
	return t
}

func get(x *exif.Exif, name exif.FieldName) *tiff.Tag {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	return tag
}

func stringTag(x *exif.Exif, name exif.FieldName) *string {
	tag := get(x, name)
	if tag == nil || tag.Format() != tiff.StringVal {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return nil
	}
	return &s
}

func timeTag(x *exif.Exif, name exif.FieldName) *time.Time {
	s := stringTag(x, name)
	if s == nil {
		return nil
	}
	parsed, err := time.ParseInLocation(exifTimeLayout, *s, time.UTC)
	if err != nil {
		return nil
	}
	return &parsed
}

func intTag(x *exif.Exif, name exif.FieldName) *int {
	tag := get(x, name)
	if tag == nil || tag.Format() != tiff.IntVal || tag.Count == 0 {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &v
}

func floatTag(x *exif.Exif, name exif.FieldName) *float64 {
	num, den, ok := rational(x, name)
	if !ok {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

func rational(x *exif.Exif, name exif.FieldName) (int64, int64, bool) {
	tag := get(x, name)
	if tag == nil || tag.Format() != tiff.RatVal || tag.Count == 0 {
		return 0, 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}

// exposureTag renders exposure time the way cameras display it: "1/125"
// for fractions of a second, decimal seconds otherwise.
func exposureTag(x *exif.Exif) *string {
	num, den, ok := rational(x, exif.ExposureTime)
	if !ok || num <= 0 {
		return nil
	}
	var s string
	switch {
	case num >= den:
		s = strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
	case den%num == 0:
		s = "1/" + strconv.FormatInt(den/num, 10)
	default:
		s = strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10)
	}
	return &s
}

func focalLengthTag(x *exif.Exif) *string {
	v := floatTag(x, exif.FocalLength)
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64) + " mm"
	return &s
}
