// Package asset defines the records the metadata pipeline reads and writes:
// the ingested asset reference, partial updates against it, and the
// canonical metadata record keyed by asset id.
package asset

import (
	"strings"
	"time"
)

// Type distinguishes still images from motion clips.
type Type string

const (
	TypeImage Type = "IMAGE"
	TypeVideo Type = "VIDEO"
)

// Opposite returns the type a live-photo twin of this asset would have.
func (t Type) Opposite() Type {
	if t == TypeVideo {
		return TypeImage
	}
	return TypeVideo
}

// ParseType maps user or database text onto a Type.
func ParseType(value string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(TypeImage):
		return TypeImage, true
	case string(TypeVideo):
		return TypeVideo, true
	default:
		return "", false
	}
}

// Asset is the ingestion system's view of a stored file. The pipeline only
// changes visibility, pairing, timestamps and duration, always through Update.
type Asset struct {
	ID               string
	Type             Type
	OriginalPath     string
	IsVisible        bool
	FileCreatedAt    time.Time
	FileModifiedAt   time.Time
	Duration         string
	LivePhotoVideoID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasLivePhotoVideo reports whether the asset already points at a motion twin.
func (a Asset) HasLivePhotoVideo() bool {
	return strings.TrimSpace(a.LivePhotoVideoID) != ""
}

// Update carries a partial write against one asset. Nil fields are left untouched.
type Update struct {
	ID               string
	IsVisible        *bool
	FileCreatedAt    *time.Time
	FileModifiedAt   *time.Time
	Duration         *string
	LivePhotoVideoID *string
}

// Empty reports whether the update would change nothing.
func (u Update) Empty() bool {
	return u.IsVisible == nil && u.FileCreatedAt == nil && u.FileModifiedAt == nil &&
		u.Duration == nil && u.LivePhotoVideoID == nil
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
