// Package geocode resolves coordinates to place names using an offline
// GeoNames gazetteer.
//
// The gazetteer is loaded once, asynchronously, by Index.Init. Until the
// load completes, Lookup reports no match without blocking; the
// Readiness handle exposes the one-shot transition for callers that want
// to observe it. Nearest-place queries run against a static k-d tree of
// unit-sphere points, so chord distance orders results the same way
// great-circle distance does.
//
// Country and state naming helpers (CountryName, StateName, Resolve) turn a
// Place into the country/state/city strings stored on metadata records.
package geocode
