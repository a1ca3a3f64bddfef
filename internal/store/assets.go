package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediameta/internal/asset"
	"mediameta/internal/services"
)

const assetColumns = "id, type, original_path, is_visible, file_created_at, file_modified_at, duration, live_photo_video_id, created_at, updated_at"

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*asset.Asset, error) {
	var (
		id           string
		typ          string
		path         string
		visible      int64
		fileCreated  sql.NullString
		fileModified sql.NullString
		duration     sql.NullString
		livePhoto    sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(&id, &typ, &path, &visible, &fileCreated, &fileModified, &duration, &livePhoto, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	return &asset.Asset{
		ID:               id,
		Type:             asset.Type(typ),
		OriginalPath:     path,
		IsVisible:        visible != 0,
		FileCreatedAt:    parseTime(fileCreated),
		FileModifiedAt:   parseTime(fileModified),
		Duration:         duration.String,
		LivePhotoVideoID: livePhoto.String,
		CreatedAt:        parseTime(createdRaw),
		UpdatedAt:        parseTime(updatedRaw),
	}, nil
}

// CreateAsset registers a file. Registering an already known path returns
// the existing asset unchanged.
func (s *Store) CreateAsset(ctx context.Context, a asset.Asset) (*asset.Asset, error) {
	if _, ok := asset.ParseType(string(a.Type)); !ok {
		return nil, services.Wrap(services.ErrValidation, "store", "create asset", fmt.Sprintf("unknown asset type %q", a.Type), nil)
	}
	if strings.TrimSpace(a.OriginalPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create asset", "empty original path", nil)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (`+assetColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(original_path) DO NOTHING`,
		a.ID,
		string(a.Type),
		a.OriginalPath,
		boolToInt(a.IsVisible),
		formatTime(a.FileCreatedAt),
		formatTime(a.FileModifiedAt),
		nullableString(a.Duration),
		nullableString(a.LivePhotoVideoID),
		now,
		now,
	)
	if err != nil {
		return nil, persistenceError("create asset", err)
	}
	return s.GetAssetByPath(ctx, a.OriginalPath)
}

// GetAsset fetches an asset by id. A missing asset yields nil, nil.
func (s *Store) GetAsset(ctx context.Context, id string) (*asset.Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get asset", err)
	}
	return a, nil
}

// GetAssetByPath fetches an asset by its source path.
func (s *Store) GetAssetByPath(ctx context.Context, path string) (*asset.Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE original_path = ?`, path)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get asset by path", err)
	}
	return a, nil
}

// ListAssets returns assets ordered by creation, optionally filtered by type.
func (s *Store) ListAssets(ctx context.Context, types ...asset.Type) ([]*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets`
	args := make([]any, 0, len(types))
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += ` WHERE type IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list assets", err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, persistenceError("scan asset", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate assets", err)
	}
	return assets, nil
}

// SaveAsset applies a partial update. Only non-nil fields are written.
func (s *Store) SaveAsset(ctx context.Context, u asset.Update) error {
	if u.ID == "" {
		return services.Wrap(services.ErrValidation, "store", "save asset", "missing asset id", nil)
	}
	if u.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if u.IsVisible != nil {
		sets = append(sets, "is_visible = ?")
		args = append(args, boolToInt(*u.IsVisible))
	}
	if u.FileCreatedAt != nil {
		sets = append(sets, "file_created_at = ?")
		args = append(args, formatTime(*u.FileCreatedAt))
	}
	if u.FileModifiedAt != nil {
		sets = append(sets, "file_modified_at = ?")
		args = append(args, formatTime(*u.FileModifiedAt))
	}
	if u.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, nullableString(*u.Duration))
	}
	if u.LivePhotoVideoID != nil {
		sets = append(sets, "live_photo_video_id = ?")
		args = append(args, nullableString(*u.LivePhotoVideoID))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), u.ID)

	res, err := s.db.ExecContext(ctx, `UPDATE assets SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return persistenceError("save asset", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistenceError("save asset", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "save asset", fmt.Sprintf("asset %s", u.ID), nil)
	}
	return nil
}

// FindLivePhotoMatch returns the oldest asset of type t, other than
// excludeID, whose metadata carries contentID. No match yields nil, nil.
func (s *Store) FindLivePhotoMatch(ctx context.Context, contentID, excludeID string, t asset.Type) (*asset.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.type, a.original_path, a.is_visible, a.file_created_at, a.file_modified_at,
                a.duration, a.live_photo_video_id, a.created_at, a.updated_at
         FROM assets a
         JOIN exif e ON e.asset_id = a.id
         WHERE e.live_photo_cid = ? AND a.id <> ? AND a.type = ?
         ORDER BY a.created_at, a.id
         LIMIT 1`,
		contentID, excludeID, string(t),
	)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("find live photo match", err)
	}
	return a, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
