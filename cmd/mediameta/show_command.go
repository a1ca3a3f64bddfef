package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediameta/internal/config"
	"mediameta/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <asset-id>",
		Short: "Show an asset and its metadata record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				runCtx := commandCtx(cmd)
				a, err := st.GetAsset(runCtx, args[0])
				if err != nil {
					return err
				}
				if a == nil {
					return fmt.Errorf("asset %s not found", args[0])
				}
				fields := [][2]string{
					{"ID", a.ID},
					{"Type", string(a.Type)},
					{"Path", a.OriginalPath},
					{"Visible", yesNo(a.IsVisible)},
					{"File created", formatStamp(a.FileCreatedAt)},
					{"File modified", formatStamp(a.FileModifiedAt)},
					{"Duration", orDash(a.Duration)},
					{"Live photo video", orDash(a.LivePhotoVideoID)},
				}

				m, err := st.GetMetadata(runCtx, a.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderFields(fields))
				if m == nil {
					fmt.Fprintln(out, "No metadata record")
					return nil
				}

				str := func(s string) string { return s }
				num := func(v int) string { return strconv.Itoa(v) }
				dec := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
				fmt.Fprintln(out, renderFields([][2]string{
					{"Image name", orDash(m.ImageName)},
					{"File size", valueOr(m.FileSizeInBytes, func(v int64) string { return strconv.FormatInt(v, 10) })},
					{"Make", valueOr(m.Make, str)},
					{"Model", valueOr(m.Model, str)},
					{"Lens", valueOr(m.LensModel, str)},
					{"Exposure", valueOr(m.ExposureTime, str)},
					{"F-number", valueOr(m.FNumber, dec)},
					{"Focal length", valueOr(m.FocalLength, dec)},
					{"ISO", valueOr(m.ISO, num)},
					{"Width", valueOr(m.Width, num)},
					{"Height", valueOr(m.Height, num)},
					{"Orientation", valueOr(m.Orientation, str)},
					{"Taken", valueOr(m.DateTimeOriginal, formatStamp)},
					{"Modified", valueOr(m.ModifyDate, formatStamp)},
					{"Latitude", valueOr(m.Latitude, dec)},
					{"Longitude", valueOr(m.Longitude, dec)},
					{"City", valueOr(m.City, str)},
					{"State", valueOr(m.State, str)},
					{"Country", valueOr(m.Country, str)},
					{"Content identifier", valueOr(m.ContentIdentifier, str)},
					{"FPS", valueOr(m.FPS, num)},
					{"Duration", valueOr(m.Duration, str)},
				}))
				return nil
			})
		},
	}
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
