package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"mediameta/internal/asset"
	"mediameta/internal/extract"
	"mediameta/internal/logging"
	"mediameta/internal/preflight"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var waitGeocoder bool

	cmd := &cobra.Command{
		Use:   "extract [asset-id...]",
		Short: "Extract metadata for registered assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []asset.Type
			if typeFlag != "" {
				t, ok := asset.ParseType(typeFlag)
				if !ok {
					return fmt.Errorf("unknown asset type %q (want image or video)", typeFlag)
				}
				types = append(types, t)
			}

			return ctx.withRuntimeLock(func(rt *runtime) error {
				runCtx := commandCtx(cmd)
				if failed := preflight.Failed(preflight.RunAll(runCtx, rt.cfg)); len(failed) > 0 {
					return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
				}

				assets, err := selectAssets(runCtx, rt, args, types)
				if err != nil {
					return err
				}
				rt.warmGazetteer(runCtx, waitGeocoder)

				dispatched := 0
				for _, a := range assets {
					job := extract.JobExtractImage
					if a.Type == asset.TypeVideo {
						job = extract.JobExtractVideo
					}
					if err := rt.dispatcher.Dispatch(runCtx, job, *a, filepath.Base(a.OriginalPath)); err != nil {
						rt.dispatcher.Wait()
						return err
					}
					dispatched++
				}
				rt.dispatcher.Wait()
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d assets\n", dispatched)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "Only process assets of this type (image or video)")
	cmd.Flags().BoolVar(&waitGeocoder, "wait-geocoder", false, "Wait for the gazetteer before dispatching")
	return cmd
}

func newReverseGeocodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse-geocode [asset-id...]",
		Short: "Recompute place names from stored coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntimeLock(func(rt *runtime) error {
				runCtx := commandCtx(cmd)
				assets, err := selectAssets(runCtx, rt, args, nil)
				if err != nil {
					return err
				}
				rt.warmGazetteer(runCtx, true)
				for _, a := range assets {
					if err := rt.dispatcher.Dispatch(runCtx, extract.JobReverseGeocode, *a, ""); err != nil {
						rt.dispatcher.Wait()
						return err
					}
				}
				rt.dispatcher.Wait()
				fmt.Fprintf(cmd.OutOrStdout(), "Recomputed %d assets\n", len(assets))
				return nil
			})
		},
	}
}

// withRuntimeLock runs fn with the pipeline wired and the batch lock held,
// so two batch runs never process the same library at once.
func (c *commandContext) withRuntimeLock(fn func(*runtime) error) error {
	rt, err := c.openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	lock := flock.New(rt.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mediameta batch run is already in progress")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			rt.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()
	return fn(rt)
}

func selectAssets(ctx context.Context, rt *runtime, ids []string, types []asset.Type) ([]*asset.Asset, error) {
	if len(ids) == 0 {
		return rt.store.ListAssets(ctx, types...)
	}
	assets := make([]*asset.Asset, 0, len(ids))
	for _, id := range ids {
		a, err := rt.store.GetAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, fmt.Errorf("asset %s not found", id)
		}
		assets = append(assets, a)
	}
	return assets, nil
}
