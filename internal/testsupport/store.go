package testsupport

import (
	"context"
	"testing"
	"time"

	"mediameta/internal/asset"
	"mediameta/internal/config"
	"mediameta/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewAsset creates a visible asset of the given type backed by path.
func NewAsset(t testing.TB, st *store.Store, typ asset.Type, path string) *asset.Asset {
	t.Helper()

	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	a, err := st.CreateAsset(context.Background(), asset.Asset{
		Type:           typ,
		OriginalPath:   path,
		IsVisible:      true,
		FileCreatedAt:  created,
		FileModifiedAt: created,
	})
	if err != nil {
		t.Fatalf("store.CreateAsset: %v", err)
	}
	return a
}
