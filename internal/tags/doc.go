// Package tags reads embedded still-image metadata (EXIF plus the Apple
// maker note) into a flat Tags value whose fields are nil when absent.
//
// Parsing is delegated to github.com/rwcarlsen/goexif. An extra maker-note
// parser is registered at init so the live-photo content identifier that
// Apple devices store in maker-note tag 0x0011 is exposed as
// ContentIdentifier.
package tags
