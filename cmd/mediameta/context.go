package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mediameta/internal/config"
	"mediameta/internal/extract"
	"mediameta/internal/geocode"
	"mediameta/internal/jobs"
	"mediameta/internal/logging"
	"mediameta/internal/media/ffprobe"
	"mediameta/internal/raster"
	"mediameta/internal/store"
	"mediameta/internal/tags"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// withStore opens the database for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// runtime is the fully wired pipeline used by the dispatching commands.
type runtime struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	index      *geocode.Index
	dispatcher *jobs.Dispatcher
}

func (c *commandContext) openRuntime() (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	index := newIndex(cfg, logger)
	handler := extract.NewHandler(extract.Dependencies{
		Assets:   st,
		Metadata: st,
		Tags:     tags.ExifReader{},
		Raster:   raster.HeaderDecoder{},
		Prober: ffprobe.Prober{
			Binary:  cfg.FFprobeBinary(),
			Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		},
		Geocoder: index,
	}, logger)

	dispatcher := jobs.New(logger)
	dispatcher.Register(extract.JobExtractImage, cfg.Workers.ImageConcurrency, handler.HandleImage)
	dispatcher.Register(extract.JobExtractVideo, cfg.Workers.VideoConcurrency, handler.HandleVideo)
	dispatcher.Register(extract.JobReverseGeocode, cfg.Workers.GeocodeConcurrency, handler.HandleReverseGeocode)

	return &runtime{cfg: cfg, logger: logger, store: st, index: index, dispatcher: dispatcher}, nil
}

func newIndex(cfg *config.Config, logger *slog.Logger) *geocode.Index {
	return geocode.New(geocode.Options{
		Enabled:   cfg.ReverseGeocoding.Enabled,
		Precision: cfg.ReverseGeocoding.Precision,
		DataDir:   cfg.ReverseGeocoding.DataDir,
	}, logger)
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// warmGazetteer starts the index load and optionally waits for it. A failed
// or disabled load is not fatal; place fields simply stay empty.
func (r *runtime) warmGazetteer(ctx context.Context, wait bool) {
	r.index.Init(ctx)
	if !wait || !r.index.Enabled() {
		return
	}
	if err := r.index.Wait(ctx); err != nil {
		logging.WarnWithContext(r.logger, "gazetteer not ready; continuing without place names", "gazetteer_wait_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "country/state/city stay empty for this run"),
		)
	}
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func valueOr[T any](p *T, format func(T) string) string {
	if p == nil {
		return "-"
	}
	return format(*p)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
