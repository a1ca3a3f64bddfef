// Package extract turns an ingested asset into its canonical metadata record.
//
// ImageExtractor and VideoExtractor resolve every output field from an
// ordered list of sources (embedded tags, container tags, a raster header
// decode, the asset's own stored values), each of which may fail on its
// own. PlaceRecomputer re-resolves place names for an already stored
// coordinate pair.
//
// Extractors never return errors to the dispatcher. Each run produces a
// Result made of per-stage outcomes; Handler logs that result as one line
// and recovers panics, so a job is always reported complete.
package extract
