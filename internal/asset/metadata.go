package asset

import "time"

// Metadata is the canonical record derived for one asset. Exactly one row
// exists per AssetID; nil fields are stored as NULL.
type Metadata struct {
	AssetID   string
	ImageName string

	FileSizeInBytes *int64

	Make         *string
	Model        *string
	LensModel    *string
	ExposureTime *string
	FNumber      *float64
	FocalLength  *float64
	ISO          *int

	Width       *int
	Height      *int
	Orientation *string

	DateTimeOriginal *time.Time
	ModifyDate       *time.Time

	Latitude  *float64
	Longitude *float64
	Country   *string
	State     *string
	City      *string

	ContentIdentifier *string
	FPS               *int
	Duration          *string
}

// HasCoordinates reports whether both latitude and longitude are known.
func (m *Metadata) HasCoordinates() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// ClearPlace resets GPS, place and frame-rate fields to null.
func (m *Metadata) ClearPlace() {
	m.Latitude = nil
	m.Longitude = nil
	m.Country = nil
	m.State = nil
	m.City = nil
	m.FPS = nil
}
