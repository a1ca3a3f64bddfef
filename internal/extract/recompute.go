package extract

import (
	"context"
	"log/slog"

	"mediameta/internal/logging"
)

// PlaceRecomputer re-resolves place names for a stored coordinate pair.
type PlaceRecomputer struct {
	metadata MetadataRepository
	geocoder Geocoder
	logger   *slog.Logger
}

func NewPlaceRecomputer(metadata MetadataRepository, geocoder Geocoder, logger *slog.Logger) *PlaceRecomputer {
	return &PlaceRecomputer{
		metadata: metadata,
		geocoder: geocoder,
		logger:   logging.NewComponentLogger(logger, "place-recompute"),
	}
}

// Recompute updates only country/state/city of assetID's record.
func (p *PlaceRecomputer) Recompute(ctx context.Context, assetID string) Result {
	res := newResult("reverse-geocode", assetID)

	record, err := p.metadata.GetMetadata(ctx, assetID)
	if err != nil {
		res.fail(StageLoad, err)
		return *res
	}
	if record == nil {
		res.skip(StageLoad, "no metadata record")
		return *res
	}
	res.ok(StageLoad, "")

	names, reason := resolvePlace(p.geocoder, record)
	if reason != "" {
		res.skip(StagePlace, reason)
		return *res
	}
	if err := p.metadata.SavePlace(ctx, assetID, names); err != nil {
		res.fail(StagePlace, err)
		return *res
	}
	logging.WithContext(ctx, p.logger).Debug("place recomputed",
		logging.String("country", names.Country),
		logging.String("city", names.City),
	)
	res.ok(StagePlace, names.City)
	return *res
}
