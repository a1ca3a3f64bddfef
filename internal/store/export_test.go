package store

import "context"

func MetadataRowCount(ctx context.Context, s *Store, assetID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM exif WHERE asset_id = ?`, assetID).Scan(&n)
	return n, err
}
