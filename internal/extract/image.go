package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/livephoto"
	"mediameta/internal/logging"
	"mediameta/internal/tags"
)

// ImageExtractor builds metadata records for still images.
type ImageExtractor struct {
	deps       Dependencies
	reconciler *livephoto.Reconciler
	logger     *slog.Logger
}

func NewImageExtractor(deps Dependencies, logger *slog.Logger) *ImageExtractor {
	return &ImageExtractor{
		deps:       deps,
		reconciler: livephoto.New(deps.Assets, logger),
		logger:     logging.NewComponentLogger(logger, "image-extractor"),
	}
}

// Extract resolves and persists the record for a. Persistence failures end
// the run; every other failure only degrades the fields it feeds.
func (e *ImageExtractor) Extract(ctx context.Context, a asset.Asset, fileName string) Result {
	res := newResult("extract-image", a.ID)
	logger := logging.WithContext(ctx, e.logger)

	t, err := e.deps.Tags.Read(ctx, a.OriginalPath)
	if err != nil {
		logger.Debug("tag read failed", logging.String("path", a.OriginalPath), logging.Error(err))
		res.degrade(StageTags, err)
		t = &tags.Tags{}
	} else {
		res.ok(StageTags, "")
	}

	createdAt := resolveImageCreatedAt(t, a)
	modifiedAt := resolveImageModifiedAt(t, a)

	record := &asset.Metadata{
		AssetID:           a.ID,
		ImageName:         imageName(fileName, a.OriginalPath),
		DateTimeOriginal:  createdAt,
		ModifyDate:        modifiedAt,
		Make:              t.Make,
		Model:             t.Model,
		LensModel:         t.LensModel,
		ExposureTime:      t.ExposureTime,
		FNumber:           t.FNumber,
		FocalLength:       parseDecimal(t.FocalLength),
		ISO:               t.ISO,
		Orientation:       t.Orientation,
		Latitude:          t.Latitude,
		Longitude:         t.Longitude,
		Width:             firstOf(value(t.ExifImageWidth), value(t.ImageWidth)),
		Height:            firstOf(value(t.ExifImageHeight), value(t.ImageHeight)),
		ContentIdentifier: t.ContentIdentifier,
	}
	if !t.HasGPS() {
		record.Latitude, record.Longitude = nil, nil
	}

	if info, err := os.Stat(a.OriginalPath); err != nil {
		res.degrade(StageFileSize, err)
	} else {
		size := info.Size()
		record.FileSizeInBytes = &size
		res.ok(StageFileSize, "")
	}

	update := asset.Update{ID: a.ID, FileCreatedAt: createdAt, FileModifiedAt: modifiedAt}
	if !update.Empty() {
		if err := e.deps.Assets.SaveAsset(ctx, update); err != nil {
			res.fail(StageAssetUpdate, err)
			return *res
		}
	}
	res.ok(StageAssetUpdate, "")

	if record.ContentIdentifier != nil {
		out, err := e.reconciler.Link(ctx, &a, *record.ContentIdentifier)
		if err != nil {
			res.fail(StageLivePhoto, err)
			return *res
		}
		res.ok(StageLivePhoto, string(out.Status))
	} else {
		res.skip(StageLivePhoto, "no content identifier")
	}

	enrichPlace(e.deps.Geocoder, record, res)

	if record.Width == nil || record.Height == nil || record.Orientation == nil {
		e.fillFromRaster(ctx, a.OriginalPath, record, res)
	}

	if err := e.deps.Metadata.UpsertMetadata(ctx, record); err != nil {
		res.fail(StageUpsert, err)
		return *res
	}
	res.ok(StageUpsert, "")
	return *res
}

// fillFromRaster fills only the dimension and orientation fields tags left
// unset. A decode error leaves them nil.
func (e *ImageExtractor) fillFromRaster(ctx context.Context, path string, record *asset.Metadata, res *Result) {
	if e.deps.Raster == nil {
		res.skip(StageRaster, "no decoder")
		return
	}
	info, err := e.deps.Raster.Decode(ctx, path)
	if err != nil {
		res.degrade(StageRaster, err)
		return
	}
	record.Width = firstOf(value(record.Width), value(info.Width))
	record.Height = firstOf(value(record.Height), value(info.Height))
	record.Orientation = firstOf(value(record.Orientation), value(info.Orientation))
	res.ok(StageRaster, "")
}

func resolveImageCreatedAt(t *tags.Tags, a asset.Asset) *time.Time {
	return firstOf(value(t.DateTimeOriginal), value(t.CreateDate), stored(a.FileCreatedAt))
}

func resolveImageModifiedAt(t *tags.Tags, a asset.Asset) *time.Time {
	return firstOf(value(t.ModifyDate), stored(a.FileModifiedAt))
}

// imageName is the file name without directory or extension.
func imageName(fileName, path string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = path
	}
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
