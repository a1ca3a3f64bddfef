// Package livephoto links a still image to the motion clip captured with it.
//
// Both halves of a live photo carry the same content identifier. Whichever
// half is processed second finds the first through the repository. The
// still image always holds the pointer (LivePhotoVideoID) and the clip is
// always the one hidden, regardless of processing order.
//
// There is no locking around the check-then-write sequence. The image's
// existing pointer is the idempotence guard: once set, later runs for that
// image do not search again.
package livephoto

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mediameta/internal/asset"
	"mediameta/internal/logging"
)

// Repository is the asset access the reconciler needs.
type Repository interface {
	SaveAsset(ctx context.Context, u asset.Update) error
	FindLivePhotoMatch(ctx context.Context, contentID, excludeID string, t asset.Type) (*asset.Asset, error)
}

// Status describes what Link did.
type Status string

const (
	StatusNoIdentifier  Status = "no_identifier"
	StatusAlreadyLinked Status = "already_linked"
	StatusNoMatch       Status = "no_match"
	StatusLinked        Status = "linked"
	StatusConflict      Status = "conflict"
)

// Outcome reports the pair involved in a Link call, when one was found.
type Outcome struct {
	Status  Status
	ImageID string
	VideoID string
}

// Reconciler performs the pairing writes.
type Reconciler struct {
	repo   Repository
	logger *slog.Logger
}

func New(repo Repository, logger *slog.Logger) *Reconciler {
	return &Reconciler{repo: repo, logger: logging.NewComponentLogger(logger, "live-photo")}
}

// Link searches for current's twin by contentID and records the pairing.
// On success current reflects the writes made to it.
func (r *Reconciler) Link(ctx context.Context, current *asset.Asset, contentID string) (Outcome, error) {
	contentID = strings.TrimSpace(contentID)
	if current == nil || contentID == "" {
		return Outcome{Status: StatusNoIdentifier}, nil
	}
	if current.Type == asset.TypeImage && current.HasLivePhotoVideo() {
		return Outcome{Status: StatusAlreadyLinked, ImageID: current.ID, VideoID: current.LivePhotoVideoID}, nil
	}

	match, err := r.repo.FindLivePhotoMatch(ctx, contentID, current.ID, current.Type.Opposite())
	if err != nil {
		return Outcome{}, fmt.Errorf("find live photo twin: %w", err)
	}
	if match == nil {
		return Outcome{Status: StatusNoMatch}, nil
	}

	image, video := current, match
	if current.Type == asset.TypeVideo {
		image, video = match, current
	}
	out := Outcome{ImageID: image.ID, VideoID: video.ID}

	switch image.LivePhotoVideoID {
	case "":
		if err := r.repo.SaveAsset(ctx, asset.Update{ID: image.ID, LivePhotoVideoID: asset.Ptr(video.ID)}); err != nil {
			return out, fmt.Errorf("set live photo pointer: %w", err)
		}
		image.LivePhotoVideoID = video.ID
	case video.ID:
		// Pointer already recorded; only the hide may be outstanding.
	default:
		out.Status = StatusConflict
		r.logger.Info("image already paired with another clip",
			logging.String("image_id", image.ID),
			logging.String("existing_video_id", image.LivePhotoVideoID),
			logging.String("candidate_video_id", video.ID),
		)
		return out, nil
	}

	if err := r.repo.SaveAsset(ctx, asset.Update{ID: video.ID, IsVisible: asset.Ptr(false)}); err != nil {
		return out, fmt.Errorf("hide live photo clip: %w", err)
	}
	video.IsVisible = false

	out.Status = StatusLinked
	r.logger.Debug("live photo linked",
		logging.String("image_id", image.ID),
		logging.String("video_id", video.ID),
		logging.String("content_id", contentID),
	)
	return out, nil
}
