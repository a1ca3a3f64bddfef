package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/logging"
	"mediameta/internal/services"
)

// Job names under which the handler operations are dispatched.
const (
	JobExtractImage   = "extract-image"
	JobExtractVideo   = "extract-video"
	JobReverseGeocode = "reverse-geocode"
)

// Handler is the dispatcher-facing surface. Its methods never return
// errors and never panic; every outcome ends up in exactly one log line.
type Handler struct {
	images *ImageExtractor
	videos *VideoExtractor
	places *PlaceRecomputer
	logger *slog.Logger
}

func NewHandler(deps Dependencies, logger *slog.Logger) *Handler {
	return &Handler{
		images: NewImageExtractor(deps, logger),
		videos: NewVideoExtractor(deps, logger),
		places: NewPlaceRecomputer(deps.Metadata, deps.Geocoder, logger),
		logger: logging.NewComponentLogger(logger, "metadata-handler"),
	}
}

// HandleImage extracts metadata for a still image.
func (h *Handler) HandleImage(ctx context.Context, a asset.Asset, fileName string) {
	h.run(ctx, JobExtractImage, a, func(ctx context.Context) Result {
		return h.images.Extract(ctx, a, fileName)
	})
}

// HandleVideo extracts metadata for a motion clip.
func (h *Handler) HandleVideo(ctx context.Context, a asset.Asset, fileName string) {
	h.run(ctx, JobExtractVideo, a, func(ctx context.Context) Result {
		return h.videos.Extract(ctx, a, fileName)
	})
}

// HandleReverseGeocode recomputes place names from stored coordinates.
func (h *Handler) HandleReverseGeocode(ctx context.Context, a asset.Asset, _ string) {
	h.run(ctx, JobReverseGeocode, a, func(ctx context.Context) Result {
		return h.places.Recompute(ctx, a.ID)
	})
}

// Handle routes a to the extractor matching its type.
func (h *Handler) Handle(ctx context.Context, a asset.Asset, fileName string) {
	if a.Type == asset.TypeVideo {
		h.HandleVideo(ctx, a, fileName)
		return
	}
	h.HandleImage(ctx, a, fileName)
}

func (h *Handler) run(ctx context.Context, job string, a asset.Asset, fn func(context.Context) Result) {
	ctx = services.WithAssetID(ctx, a.ID)
	if _, ok := services.JobFromContext(ctx); !ok {
		ctx = services.WithJob(ctx, job)
	}
	logger := logging.WithContext(ctx, h.logger)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logger, "metadata job panicked", "job_panic",
				logging.String("panic", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "report this file; the asset keeps its previous metadata"),
			)
		}
	}()

	res := fn(ctx)
	attrs := []logging.Attr{
		logging.String("operation", res.Operation),
		logging.String("status", string(res.Status())),
		logging.Duration("elapsed", time.Since(start)),
	}
	if summary := res.Summary(); summary != "" {
		attrs = append(attrs, logging.String("stages", summary))
	}

	switch res.Status() {
	case StatusFailed:
		err := res.Err()
		attrs = append(attrs,
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
		)
		logging.ErrorWithContext(logger, "metadata job failed", "job_failed", attrs...)
	case StatusDegraded:
		attrs = append(attrs, logging.Error(res.degradedErr()))
		logging.WarnWithContext(logger, "metadata job degraded", "job_degraded",
			append(attrs, logging.String(logging.FieldImpact, "some metadata fields fell back or stayed empty"))...)
	default:
		logger.Info("metadata job completed", logging.Args(attrs...)...)
	}
}
