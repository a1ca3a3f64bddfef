package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TIFF field types used by the fixtures.
const (
	TypeASCII     uint16 = 2
	TypeShort     uint16 = 3
	TypeLong      uint16 = 4
	TypeRational  uint16 = 5
	TypeUndefined uint16 = 7
)

const (
	tagExifIFDPointer = 0x8769
	tagGPSIFDPointer  = 0x8825
)

// TIFFField is one IFD entry with its little-endian encoded value.
type TIFFField struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// EXIFImage groups the directories written by BuildTIFF. Empty Exif or GPS
// sections omit the corresponding pointer tag.
type EXIFImage struct {
	IFD0 []TIFFField
	Exif []TIFFField
	GPS  []TIFFField
}

func ASCIIField(tag uint16, value string) TIFFField {
	data := append([]byte(value), 0)
	return TIFFField{Tag: tag, Type: TypeASCII, Count: uint32(len(data)), Data: data}
}

func ShortField(tag uint16, value uint16) TIFFField {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, value)
	return TIFFField{Tag: tag, Type: TypeShort, Count: 1, Data: data}
}

func LongField(tag uint16, value uint32) TIFFField {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)
	return TIFFField{Tag: tag, Type: TypeLong, Count: 1, Data: data}
}

// RationalField encodes one or more num/den pairs.
func RationalField(tag uint16, pairs ...[2]uint32) TIFFField {
	data := make([]byte, 0, 8*len(pairs))
	for _, p := range pairs {
		data = binary.LittleEndian.AppendUint32(data, p[0])
		data = binary.LittleEndian.AppendUint32(data, p[1])
	}
	return TIFFField{Tag: tag, Type: TypeRational, Count: uint32(len(pairs)), Data: data}
}

func UndefinedField(tag uint16, data []byte) TIFFField {
	return TIFFField{Tag: tag, Type: TypeUndefined, Count: uint32(len(data)), Data: append([]byte(nil), data...)}
}

// AppleMakerNote builds a minimal Apple iOS maker note carrying the live
// photo content identifier in tag 0x0011.
func AppleMakerNote(contentID string) []byte {
	value := append([]byte(contentID), 0)
	note := []byte("Apple iOS\x00")
	note = append(note, 0x00, 0x01, 'M', 'M')
	note = binary.BigEndian.AppendUint16(note, 1)
	note = binary.BigEndian.AppendUint16(note, 0x0011)
	note = binary.BigEndian.AppendUint16(note, TypeASCII)
	note = binary.BigEndian.AppendUint32(note, uint32(len(value)))
	// 14-byte header + 2-byte count + one 12-byte entry + 4-byte next pointer.
	note = binary.BigEndian.AppendUint32(note, 32)
	note = binary.BigEndian.AppendUint32(note, 0)
	return append(note, value...)
}

// BuildTIFF lays out a little-endian TIFF with IFD0 followed by the optional
// Exif and GPS sub-directories.
func BuildTIFF(img EXIFImage) []byte {
	ifd0 := append([]TIFFField(nil), img.IFD0...)
	if len(img.Exif) > 0 {
		ifd0 = append(ifd0, LongField(tagExifIFDPointer, 0))
	}
	if len(img.GPS) > 0 {
		ifd0 = append(ifd0, LongField(tagGPSIFDPointer, 0))
	}

	ifd0Start := uint32(8)
	exifStart := ifd0Start + ifdSize(ifd0)
	gpsStart := exifStart + ifdSize(img.Exif)
	for i := range ifd0 {
		switch ifd0[i].Tag {
		case tagExifIFDPointer:
			ifd0[i] = LongField(tagExifIFDPointer, exifStart)
		case tagGPSIFDPointer:
			ifd0[i] = LongField(tagGPSIFDPointer, gpsStart)
		}
	}

	out := []byte{'I', 'I', 42, 0}
	out = binary.LittleEndian.AppendUint32(out, ifd0Start)
	out = appendIFD(out, ifd0, ifd0Start)
	if len(img.Exif) > 0 {
		out = appendIFD(out, img.Exif, exifStart)
	}
	if len(img.GPS) > 0 {
		out = appendIFD(out, img.GPS, gpsStart)
	}
	return out
}

// WriteTIFF writes BuildTIFF output to path.
func WriteTIFF(t testing.TB, path string, img EXIFImage) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, BuildTIFF(img), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func ifdSize(fields []TIFFField) uint32 {
	if len(fields) == 0 {
		return 0
	}
	size := uint32(2 + 12*len(fields) + 4)
	for _, f := range fields {
		if len(f.Data) > 4 {
			size += padded(len(f.Data))
		}
	}
	return size
}

func appendIFD(out []byte, fields []TIFFField, start uint32) []byte {
	sorted := append([]TIFFField(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	dataOffset := start + uint32(2+12*len(sorted)+4)
	var data []byte

	out = binary.LittleEndian.AppendUint16(out, uint16(len(sorted)))
	for _, f := range sorted {
		out = binary.LittleEndian.AppendUint16(out, f.Tag)
		out = binary.LittleEndian.AppendUint16(out, f.Type)
		out = binary.LittleEndian.AppendUint32(out, f.Count)
		if len(f.Data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, f.Data)
			out = append(out, inline...)
			continue
		}
		out = binary.LittleEndian.AppendUint32(out, dataOffset+uint32(len(data)))
		data = append(data, f.Data...)
		if len(f.Data)%2 == 1 {
			data = append(data, 0)
		}
	}
	out = binary.LittleEndian.AppendUint32(out, 0)
	return append(out, data...)
}

func padded(n int) uint32 {
	return uint32(n + n%2)
}
