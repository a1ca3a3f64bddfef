package extract

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/livephoto"
	"mediameta/internal/location"
	"mediameta/internal/logging"
	"mediameta/internal/media/ffprobe"
	"mediameta/internal/services"
	"mediameta/internal/tags"
)

// QuickTime container tags consulted by the video extractor.
const (
	TagCreationDate      = "com.apple.quicktime.creationdate"
	TagCreationTime      = "creation_time"
	TagContentIdentifier = "com.apple.quicktime.content.identifier"
	TagMake              = "com.apple.quicktime.make"
	TagModel             = "com.apple.quicktime.model"
)

var containerTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// VideoExtractor builds metadata records for motion clips.
type VideoExtractor struct {
	deps       Dependencies
	reconciler *livephoto.Reconciler
	logger     *slog.Logger
}

func NewVideoExtractor(deps Dependencies, logger *slog.Logger) *VideoExtractor {
	return &VideoExtractor{
		deps:       deps,
		reconciler: livephoto.New(deps.Assets, logger),
		logger:     logging.NewComponentLogger(logger, "video-extractor"),
	}
}

// Extract probes a's container and persists its record. Hidden assets are
// skipped without any I/O; a probe failure aborts before anything is written.
func (e *VideoExtractor) Extract(ctx context.Context, a asset.Asset, fileName string) Result {
	res := newResult("extract-video", a.ID)
	logger := logging.WithContext(ctx, e.logger)

	if !a.IsVisible {
		res.skip(StageVisibility, "asset hidden")
		return *res
	}

	probe, err := e.deps.Prober.Probe(ctx, a.OriginalPath)
	if err != nil {
		res.fail(StageProbe, services.Wrap(services.ErrExternalTool, "extract", "probe", a.OriginalPath, err))
		return *res
	}
	res.ok(StageProbe, "")

	duration := a.Duration
	if probe.HasDuration() {
		duration = FormatDuration(probe.DurationSeconds())
	}
	createdAt := resolveVideoCreatedAt(probe, a)

	t, err := e.deps.Tags.Read(ctx, a.OriginalPath)
	if err != nil {
		logger.Debug("tag read failed", logging.String("path", a.OriginalPath), logging.Error(err))
		res.degrade(StageTags, err)
		t = &tags.Tags{}
	} else {
		res.ok(StageTags, "")
	}

	record := &asset.Metadata{
		AssetID:           a.ID,
		ImageName:         imageName(fileName, a.OriginalPath),
		DateTimeOriginal:  createdAt,
		Make:              firstOf(value(t.Make), containerTag(probe, TagMake)),
		Model:             firstOf(value(t.Model), containerTag(probe, TagModel)),
		ContentIdentifier: firstOf(value(t.ContentIdentifier), containerTag(probe, TagContentIdentifier)),
		Duration:          nonEmpty(duration),
	}
	record.ClearPlace()
	record.FileSizeInBytes = e.fileSize(probe, a.OriginalPath, res)

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

	if coords, tag, ok := parseContainerLocation(probe); ok {
		record.Latitude = &coords.Latitude
		record.Longitude = &coords.Longitude
		res.ok(StageLocation, tag)
	} else {
		res.skip(StageLocation, "no usable location tag")
	}

	enrichPlace(e.deps.Geocoder, record, res)

	for _, stream := range probe.Streams {
		if !stream.IsVideo() {
			continue
		}
		record.Width = positive(stream.Width)
		record.Height = positive(stream.Height)
		record.Orientation = nil
		if rotation, ok := stream.Rotation(); ok {
			s := strconv.FormatFloat(rotation, 'f', -1, 64)
			record.Orientation = &s
		}
		if fps := ParseFrameRate(stream.RFrameRate); fps != nil {
			record.FPS = fps
		}
	}

	if err := e.deps.Metadata.UpsertMetadata(ctx, record); err != nil {
		res.fail(StageUpsert, err)
		return *res
	}
	res.ok(StageUpsert, "")

	update := asset.Update{ID: a.ID, Duration: nonEmpty(duration), FileCreatedAt: createdAt}
	if !update.Empty() {
		if err := e.deps.Assets.SaveAsset(ctx, update); err != nil {
			res.fail(StageAssetUpdate, err)
			return *res
		}
	}
	res.ok(StageAssetUpdate, "")
	return *res
}

func (e *VideoExtractor) fileSize(probe ffprobe.Result, path string, res *Result) *int64 {
	if size := probe.SizeBytes(); size > 0 {
		res.ok(StageFileSize, "container")
		return &size
	}
	info, err := os.Stat(path)
	if err != nil {
		res.degrade(StageFileSize, err)
		return nil
	}
	size := info.Size()
	res.ok(StageFileSize, "stat")
	return &size
}

func resolveVideoCreatedAt(probe ffprobe.Result, a asset.Asset) *time.Time {
	return firstOf(
		containerTime(probe, TagCreationDate),
		containerTime(probe, TagCreationTime),
		stored(a.FileCreatedAt),
	)
}

// parseContainerLocation reads the generic location tag when present and
// the ISO 6709 tag only when it is absent. A malformed tag yields no
// coordinates.
func parseContainerLocation(probe ffprobe.Result) (location.Coordinates, string, bool) {
	tag := location.TagLocation
	text, ok := probe.Tag(tag)
	if !ok {
		tag = location.TagISO6709
		if text, ok = probe.Tag(tag); !ok {
			return location.Coordinates{}, "", false
		}
	}
	coords, ok := location.Parse(tag, text)
	return coords, tag, ok
}

func containerTag(probe ffprobe.Result, key string) func() *string {
	return func() *string {
		text, ok := probe.Tag(key)
		if !ok {
			return nil
		}
		return nonEmpty(strings.TrimSpace(text))
	}
}

// containerTime parses a creation tag. Unparsable values count as absent so
// the next candidate is tried.
func containerTime(probe ffprobe.Result, key string) func() *time.Time {
	return func() *time.Time {
		text, ok := probe.Tag(key)
		if !ok {
			return nil
		}
		text = strings.TrimSpace(text)
		for _, layout := range containerTimeLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		}
		return nil
	}
}
