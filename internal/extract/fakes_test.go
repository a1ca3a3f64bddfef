package extract_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mediameta/internal/asset"
	"mediameta/internal/extract"
	"mediameta/internal/geocode"
	"mediameta/internal/logging"
	"mediameta/internal/media/ffprobe"
	"mediameta/internal/raster"
	"mediameta/internal/store"
	"mediameta/internal/tags"
	"mediameta/internal/testsupport"
)

type fakeTags struct {
	byPath map[string]*tags.Tags
	err    error
	panic  bool
}

func (f *fakeTags) Read(_ context.Context, path string) (*tags.Tags, error) {
	if f.panic {
		panic("corrupt maker note")
	}
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byPath[path]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, errors.New("no exif data")
}

type fakeRaster struct {
	info  raster.Info
	err   error
	calls int
}

func (f *fakeRaster) Decode(context.Context, string) (raster.Info, error) {
	f.calls++
	return f.info, f.err
}

type fakeProber struct {
	results map[string]ffprobe.Result
	err     error
	calls   int
}

func (f *fakeProber) Probe(_ context.Context, path string) (ffprobe.Result, error) {
	f.calls++
	if f.err != nil {
		return ffprobe.Result{}, f.err
	}
	return f.results[path], nil
}

type fakeGeocoder struct {
	readiness *geocode.Readiness
	place     geocode.Place
	lookups   int
}

func newGeocoder(ready bool, place geocode.Place) *fakeGeocoder {
	g := &fakeGeocoder{readiness: geocode.NewReadiness(), place: place}
	if ready {
		g.readiness.Set()
	}
	return g
}

func (g *fakeGeocoder) Readiness() *geocode.Readiness { return g.readiness }

func (g *fakeGeocoder) Lookup(float64, float64) (geocode.Place, bool) {
	g.lookups++
	return g.place, true
}

// countingAssets wraps the store to count live-photo searches.
type countingAssets struct {
	*store.Store
	mu       sync.Mutex
	searches int
}

func (c *countingAssets) FindLivePhotoMatch(ctx context.Context, cid, exclude string, t asset.Type) (*asset.Asset, error) {
	c.mu.Lock()
	c.searches++
	c.mu.Unlock()
	return c.Store.FindLivePhotoMatch(ctx, cid, exclude, t)
}

var cupertino = geocode.Place{
	Name:        "Cupertino",
	CountryCode: "US",
	Admin1:      geocode.AdminRegion{Code: "CA", Name: "California"},
	Admin2:      geocode.AdminRegion{Code: "085", Name: "Santa Clara County"},
}

type env struct {
	store    *store.Store
	assets   *countingAssets
	tags     *fakeTags
	raster   *fakeRaster
	prober   *fakeProber
	geocoder *fakeGeocoder
	logger   *slog.Logger
	dir      string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return &env{
		store:    st,
		assets:   &countingAssets{Store: st},
		tags:     &fakeTags{byPath: map[string]*tags.Tags{}},
		raster:   &fakeRaster{},
		prober:   &fakeProber{results: map[string]ffprobe.Result{}},
		geocoder: newGeocoder(true, cupertino),
		logger:   logging.NewNop(),
		dir:      testsupport.BaseDir(cfg),
	}
}

func (e *env) deps() extract.Dependencies {
	return extract.Dependencies{
		Assets:   e.assets,
		Metadata: e.store,
		Tags:     e.tags,
		Raster:   e.raster,
		Prober:   e.prober,
		Geocoder: e.geocoder,
	}
}

func (e *env) images() *extract.ImageExtractor {
	return extract.NewImageExtractor(e.deps(), e.logger)
}

func (e *env) videos() *extract.VideoExtractor {
	return extract.NewVideoExtractor(e.deps(), e.logger)
}

// newFile writes a small file and registers it as an asset.
func (e *env) newFile(t *testing.T, typ asset.Type, name string) *asset.Asset {
	t.Helper()
	path := filepath.Join(e.dir, "library", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, 1234), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return testsupport.NewAsset(t, e.store, typ, path)
}

func (e *env) reload(t *testing.T, id string) *asset.Asset {
	t.Helper()
	a, err := e.store.GetAsset(context.Background(), id)
	if err != nil || a == nil {
		t.Fatalf("GetAsset %s: %v", id, err)
	}
	return a
}

func (e *env) record(t *testing.T, id string) *asset.Metadata {
	t.Helper()
	m, err := e.store.GetMetadata(context.Background(), id)
	if err != nil {
		t.Fatalf("GetMetadata %s: %v", id, err)
	}
	return m
}

func ptr[T any](v T) *T { return &v }
