package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediameta/internal/asset"
	"mediameta/internal/config"
	"mediameta/internal/store"
)

var assetExtensions = map[string]asset.Type{
	".jpg":  asset.TypeImage,
	".jpeg": asset.TypeImage,
	".png":  asset.TypeImage,
	".gif":  asset.TypeImage,
	".bmp":  asset.TypeImage,
	".webp": asset.TypeImage,
	".tif":  asset.TypeImage,
	".tiff": asset.TypeImage,
	".heic": asset.TypeImage,
	".heif": asset.TypeImage,
	".dng":  asset.TypeImage,
	".mov":  asset.TypeVideo,
	".mp4":  asset.TypeVideo,
	".m4v":  asset.TypeVideo,
	".3gp":  asset.TypeVideo,
	".avi":  asset.TypeVideo,
	".mkv":  asset.TypeVideo,
}

func assetTypeFor(path string) (asset.Type, bool) {
	t, ok := assetExtensions[strings.ToLower(filepath.Ext(path))]
	return t, ok
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Register files as assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					a, err := registerFile(cmd, st, arg)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s %s\n", a.ID, a.Type, a.OriginalPath)
				}
				return nil
			})
		},
	}
}

func registerFile(cmd *cobra.Command, st *store.Store, path string) (*asset.Asset, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("inspect file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", absPath)
	}
	typ, ok := assetTypeFor(absPath)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(absPath))
	}

	modTime := info.ModTime().UTC()
	return st.CreateAsset(commandCtx(cmd), asset.Asset{
		Type:           typ,
		OriginalPath:   absPath,
		IsVisible:      true,
		FileCreatedAt:  modTime,
		FileModifiedAt: modTime,
	})
}
