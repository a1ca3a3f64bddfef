package extract

import (
	"context"

	"mediameta/internal/asset"
	"mediameta/internal/geocode"
	"mediameta/internal/media/ffprobe"
	"mediameta/internal/raster"
	"mediameta/internal/tags"
)

// AssetRepository persists partial asset writes and finds live-photo twins.
type AssetRepository interface {
	SaveAsset(ctx context.Context, u asset.Update) error
	FindLivePhotoMatch(ctx context.Context, contentID, excludeID string, t asset.Type) (*asset.Asset, error)
}

// MetadataRepository persists metadata records keyed by asset id.
type MetadataRepository interface {
	UpsertMetadata(ctx context.Context, m *asset.Metadata) error
	GetMetadata(ctx context.Context, assetID string) (*asset.Metadata, error)
	SavePlace(ctx context.Context, assetID string, names geocode.Names) error
}

// TagReader reads embedded still-image tags.
type TagReader interface {
	Read(ctx context.Context, path string) (*tags.Tags, error)
}

// RasterDecoder reads best-effort dimensions and orientation from pixels.
type RasterDecoder interface {
	Decode(ctx context.Context, path string) (raster.Info, error)
}

// Prober inspects video containers.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// Geocoder is the read side of the geocoding index.
type Geocoder interface {
	Readiness() *geocode.Readiness
	Lookup(lat, lon float64) (geocode.Place, bool)
}

// Dependencies bundles the collaborators shared by the extractors.
type Dependencies struct {
	Assets   AssetRepository
	Metadata MetadataRepository
	Tags     TagReader
	Raster   RasterDecoder
	Prober   Prober
	Geocoder Geocoder
}
