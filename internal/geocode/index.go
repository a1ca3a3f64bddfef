package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mediameta/internal/logging"
	"mediameta/internal/services"
)

// ErrDisabled is returned by Wait when reverse geocoding is switched off.
var ErrDisabled = errors.New("reverse geocoding disabled")

// Options selects the gazetteer the index loads.
type Options struct {
	Enabled   bool
	Precision int
	DataDir   string
}

type dataset struct {
	places []Place
	tree   *kdTree
}

// Index answers nearest-place queries once its gazetteer has loaded.
type Index struct {
	opts      Options
	logger    *slog.Logger
	readiness *Readiness

	data atomic.Pointer[dataset]

	loadMu   sync.Mutex
	initOnce sync.Once
	finished chan struct{}
	finish   sync.Once
	loadErr  error
}

// New constructs an index. Nothing is loaded until Init or Load is called.
func New(opts Options, logger *slog.Logger) *Index {
	return &Index{
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "geocoder"),
		readiness: NewReadiness(),
		finished:  make(chan struct{}),
	}
}

// Readiness returns the index's one-shot readiness handle.
func (i *Index) Readiness() *Readiness {
	return i.readiness
}

// Enabled reports whether the index will ever load.
func (i *Index) Enabled() bool {
	return i.opts.Enabled
}

// Init starts the gazetteer load in the background and returns immediately.
// Repeated calls are no-ops.
func (i *Index) Init(ctx context.Context) {
	if !i.opts.Enabled {
		i.logger.Info("reverse geocoding disabled")
		return
	}
	i.initOnce.Do(func() {
		go func() {
			if err := i.Load(ctx); err != nil {
				logging.ErrorWithContext(i.logger, "gazetteer load failed", "gazetteer_load_failed",
					logging.Error(err),
					logging.String("data_dir", i.opts.DataDir),
					logging.String(logging.FieldErrorHint, "download the GeoNames files into reverse_geocoding.data_dir"),
				)
			}
		}()
	})
}

// Load reads the gazetteer synchronously and marks the index ready.
func (i *Index) Load(ctx context.Context) error {
	i.loadMu.Lock()
	defer i.loadMu.Unlock()
	if i.readiness.Ready() {
		return nil
	}

	start := time.Now()
	ds, err := i.load(ctx)
	if err != nil {
		i.loadErr = err
		i.finish.Do(func() { close(i.finished) })
		return err
	}
	i.data.Store(ds)
	i.readiness.Set()
	i.finish.Do(func() { close(i.finished) })

	i.logger.Info("gazetteer loaded",
		logging.Int("places", len(ds.places)),
		logging.Int("precision", i.opts.Precision),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Wait blocks until the load finishes or ctx ends. It is for one-shot
// commands; extractors use Readiness instead.
func (i *Index) Wait(ctx context.Context) error {
	if !i.opts.Enabled {
		return ErrDisabled
	}
	select {
	case <-i.readiness.Done():
		return nil
	case <-i.finished:
		if i.readiness.Ready() {
			return nil
		}
		return i.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lookup returns the place nearest to lat/lon. It reports false without
// blocking when the index is not ready or holds no places.
func (i *Index) Lookup(lat, lon float64) (Place, bool) {
	if !i.readiness.Ready() {
		return Place{}, false
	}
	ds := i.data.Load()
	if ds == nil {
		return Place{}, false
	}
	idx := ds.tree.nearest(toPoint(lat, lon))
	if idx < 0 {
		return Place{}, false
	}
	return ds.places[idx], true
}

// Len returns the number of loaded places.
func (i *Index) Len() int {
	if ds := i.data.Load(); ds != nil {
		return len(ds.places)
	}
	return 0
}

func (i *Index) load(ctx context.Context) (*dataset, error) {
	base, err := citiesFile(i.opts.Precision)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "geocode", "select gazetteer", "", err)
	}
	citiesPath, err := locate(i.opts.DataDir, base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "geocode", "locate gazetteer", "", err)
	}

	var (
		places []Place
		admin  [4]map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parsed, err := parseCities(citiesPath)
		if err != nil {
			return err
		}
		places = parsed
		return gctx.Err()
	})
	for level, name := range []string{admin1File, admin2File, admin3File, admin4File} {
		g.Go(func() error {
			path, err := locate(i.opts.DataDir, name)
			if err != nil {
				i.logger.Debug("admin names unavailable", logging.String("table", name), logging.Error(err))
				return nil
			}
			names, err := parseAdminNames(path)
			if err != nil {
				return err
			}
			admin[level] = names
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "geocode", "parse gazetteer", "", err)
	}
	if len(places) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "geocode", "parse gazetteer", fmt.Sprintf("%s holds no places", citiesPath), nil)
	}

	for idx := range places {
		keys := adminKeys(places[idx])
		regions := [4]*AdminRegion{&places[idx].Admin1, &places[idx].Admin2, &places[idx].Admin3, &places[idx].Admin4}
		for level, key := range keys {
			if key == "" || admin[level] == nil {
				continue
			}
			regions[level].Name = admin[level][key]
		}
	}

	return &dataset{places: places, tree: buildTree(places)}, nil
}
