package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/geocode"
	"mediameta/internal/services"
)

const metadataColumns = "asset_id, image_name, file_size_in_bytes, make, model, lens_model, exposure_time, f_number, focal_length, iso, exif_image_width, exif_image_height, orientation, date_time_original, modify_date, latitude, longitude, country, state, city, live_photo_cid, fps, duration, updated_at"

// UpsertMetadata writes m keyed by its asset id, replacing every column of
// an existing row.
func (s *Store) UpsertMetadata(ctx context.Context, m *asset.Metadata) error {
	if m == nil || m.AssetID == "" {
		return services.Wrap(services.ErrValidation, "store", "upsert metadata", "missing asset id", nil)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exif (`+metadataColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(asset_id) DO UPDATE SET
             image_name = excluded.image_name,
             file_size_in_bytes = excluded.file_size_in_bytes,
             make = excluded.make,
             model = excluded.model,
             lens_model = excluded.lens_model,
             exposure_time = excluded.exposure_time,
             f_number = excluded.f_number,
             focal_length = excluded.focal_length,
             iso = excluded.iso,
             exif_image_width = excluded.exif_image_width,
             exif_image_height = excluded.exif_image_height,
             orientation = excluded.orientation,
             date_time_original = excluded.date_time_original,
             modify_date = excluded.modify_date,
             latitude = excluded.latitude,
             longitude = excluded.longitude,
             country = excluded.country,
             state = excluded.state,
             city = excluded.city,
             live_photo_cid = excluded.live_photo_cid,
             fps = excluded.fps,
             duration = excluded.duration,
             updated_at = excluded.updated_at`,
		m.AssetID,
		nullableString(m.ImageName),
		nullable(m.FileSizeInBytes),
		nullable(m.Make),
		nullable(m.Model),
		nullable(m.LensModel),
		nullable(m.ExposureTime),
		nullable(m.FNumber),
		nullable(m.FocalLength),
		nullable(m.ISO),
		nullable(m.Width),
		nullable(m.Height),
		nullable(m.Orientation),
		nullableTime(m.DateTimeOriginal),
		nullableTime(m.ModifyDate),
		nullable(m.Latitude),
		nullable(m.Longitude),
		nullable(m.Country),
		nullable(m.State),
		nullable(m.City),
		nullable(m.ContentIdentifier),
		nullable(m.FPS),
		nullable(m.Duration),
		formatTime(time.Now()),
	)
	if err != nil {
		return persistenceError("upsert metadata", err)
	}
	return nil
}

// GetMetadata fetches the record for assetID. A missing record yields nil, nil.
func (s *Store) GetMetadata(ctx context.Context, assetID string) (*asset.Metadata, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+metadataColumns+` FROM exif WHERE asset_id = ?`, assetID)

	var (
		m            asset.Metadata
		imageName    sql.NullString
		fileSize     sql.NullInt64
		cameraMake   sql.NullString
		model        sql.NullString
		lensModel    sql.NullString
		exposureTime sql.NullString
		fNumber      sql.NullFloat64
		focalLength  sql.NullFloat64
		iso          sql.NullInt64
		width        sql.NullInt64
		height       sql.NullInt64
		orientation  sql.NullString
		original     sql.NullString
		modify       sql.NullString
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		country      sql.NullString
		state        sql.NullString
		city         sql.NullString
		contentID    sql.NullString
		fps          sql.NullInt64
		duration     sql.NullString
		updatedRaw   sql.NullString
	)
	err := row.Scan(&m.AssetID, &imageName, &fileSize, &cameraMake, &model, &lensModel, &exposureTime,
		&fNumber, &focalLength, &iso, &width, &height, &orientation, &original, &modify,
		&latitude, &longitude, &country, &state, &city, &contentID, &fps, &duration, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get metadata", err)
	}

	m.ImageName = imageName.String
	m.FileSizeInBytes = int64Ptr(fileSize)
	m.Make = stringPtr(cameraMake)
	m.Model = stringPtr(model)
	m.LensModel = stringPtr(lensModel)
	m.ExposureTime = stringPtr(exposureTime)
	m.FNumber = floatPtr(fNumber)
	m.FocalLength = floatPtr(focalLength)
	m.ISO = intPtr(iso)
	m.Width = intPtr(width)
	m.Height = intPtr(height)
	m.Orientation = stringPtr(orientation)
	m.DateTimeOriginal = timePtr(original)
	m.ModifyDate = timePtr(modify)
	m.Latitude = floatPtr(latitude)
	m.Longitude = floatPtr(longitude)
	m.Country = stringPtr(country)
	m.State = stringPtr(state)
	m.City = stringPtr(city)
	m.ContentIdentifier = stringPtr(contentID)
	m.FPS = intPtr(fps)
	m.Duration = stringPtr(duration)
	return &m, nil
}

// SavePlace updates only the place columns of an existing record.
func (s *Store) SavePlace(ctx context.Context, assetID string, names geocode.Names) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exif SET country = ?, state = ?, city = ?, updated_at = ? WHERE asset_id = ?`,
		nullableString(names.Country),
		nullableString(names.State),
		nullableString(names.City),
		formatTime(time.Now()),
		assetID,
	)
	if err != nil {
		return persistenceError("save place", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistenceError("save place", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "save place", fmt.Sprintf("no metadata for asset %s", assetID), nil)
	}
	return nil
}
