package tags

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

// ContentIdentifier is the field name assigned to Apple maker-note tag 0x0011.
const ContentIdentifier exif.FieldName = "ContentIdentifier"

var appleHeader = []byte("Apple iOS\x00")

// appleDirOffset skips the "Apple iOS\0" signature, a two-byte version and
// the "MM" byte-order mark.
const appleDirOffset = 14

var appleFields = map[uint16]exif.FieldName{
	0x0011: ContentIdentifier,
}

func init() {
	exif.RegisterParsers(mknote.All...)
	exif.RegisterParsers(appleParser{})
}

type appleParser struct{}

// Parse loads the Apple maker-note directory. Malformed notes are ignored so
// the standard EXIF fields stay usable.
func (appleParser) Parse(x *exif.Exif) error {
	m, err := x.Get(exif.MakerNote)
	if err != nil || !bytes.HasPrefix(m.Val, appleHeader) || len(m.Val) <= appleDirOffset {
		return nil
	}
	r := bytes.NewReader(m.Val)
	if _, err := r.Seek(appleDirOffset, io.SeekStart); err != nil {
		return nil
	}
	dir, _, err := tiff.DecodeDir(r, binary.BigEndian)
	if err != nil {
		return nil
	}
	x.LoadTags(dir, appleFields, false)
	return nil
}
