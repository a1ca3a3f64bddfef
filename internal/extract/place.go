package extract

import (
	"mediameta/internal/asset"
	"mediameta/internal/geocode"
)

// enrichPlace fills country/state/city when the index is ready and the
// record has both coordinates. It never blocks on the index.
func enrichPlace(g Geocoder, m *asset.Metadata, res *Result) {
	names, reason := resolvePlace(g, m)
	if reason != "" {
		res.skip(StagePlace, reason)
		return
	}
	m.Country = nonEmpty(names.Country)
	m.State = nonEmpty(names.State)
	m.City = nonEmpty(names.City)
	res.ok(StagePlace, names.City)
}

func resolvePlace(g Geocoder, m *asset.Metadata) (geocode.Names, string) {
	if !m.HasCoordinates() {
		return geocode.Names{}, "no coordinates"
	}
	if g == nil || !g.Readiness().Ready() {
		return geocode.Names{}, "geocoder not ready"
	}
	place, ok := g.Lookup(*m.Latitude, *m.Longitude)
	if !ok {
		return geocode.Names{}, "no place found"
	}
	return geocode.Resolve(place), ""
}
