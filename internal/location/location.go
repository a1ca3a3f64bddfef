// Package location parses the GPS text that video containers carry in
// their location tags.
//
// Two encodings are recognized, each only under its own tag:
//
//	location                              +37.3349-122.0090/
//	com.apple.quicktime.location.ISO6709  +37.3349-122.0090+024.000/
//
// The altitude component of the ISO 6709 form is parsed and discarded.
package location

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// TagLocation is the generic container tag holding a signed lat/lon pair.
	TagLocation = "location"
	// TagISO6709 is the QuickTime tag holding lat/lon/altitude.
	TagISO6709 = "com.apple.quicktime.location.ISO6709"
)

// Coordinates is a parsed latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

var signedDecimal = regexp.MustCompile(`[+-]\d+(?:\.\d+)?`)

// Parse dispatches text to the sub-parser owned by tag. An unknown tag, or
// text that does not match that tag's encoding exactly, is a no-match.
func Parse(tag, text string) (Coordinates, bool) {
	switch {
	case strings.EqualFold(tag, TagLocation):
		return ParseSignedPair(text)
	case strings.EqualFold(tag, TagISO6709):
		return ParseISO6709(text)
	default:
		return Coordinates{}, false
	}
}

// ParseSignedPair parses "<lat><lon>/" with both components signed.
func ParseSignedPair(text string) (Coordinates, bool) {
	parts, ok := components(text, 2)
	if !ok {
		return Coordinates{}, false
	}
	return build(parts[0], parts[1])
}

// ParseISO6709 parses "<lat><lon><alt>/" with all three components signed.
func ParseISO6709(text string) (Coordinates, bool) {
	parts, ok := components(text, 3)
	if !ok {
		return Coordinates{}, false
	}
	return build(parts[0], parts[1])
}

// components splits the text before the terminating "/" into signed
// decimals and requires the whole prefix to be consumed by exactly want of
// them. A trailing coordinate reference system suffix after "/" is ignored.
func components(text string, want int) ([]string, bool) {
	body, _, found := strings.Cut(strings.TrimSpace(text), "/")
	if !found || body == "" {
		return nil, false
	}
	parts := signedDecimal.FindAllString(body, -1)
	if len(parts) != want || strings.Join(parts, "") != body {
		return nil, false
	}
	return parts, true
}

func build(latText, lonText string) (Coordinates, bool) {
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil || lat < -90 || lat > 90 {
		return Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil || lon < -180 || lon > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true
}
