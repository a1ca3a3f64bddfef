package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediameta/internal/geocode"
	"mediameta/internal/logging"
)

func newGeocodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <lat> <lon>",
		Short: "Print the place nearest to a coordinate",
		Long: "Print the place nearest to a coordinate.\n\n" +
			"Negative coordinates are accepted as plain arguments, for example\n" +
			"  mediameta geocode -33.8688 151.2093",
		// Flag parsing is off so negative coordinates are not read as
		// shorthand flags; --config and --help are handled by parseGeocodeArgs.
		DisableFlagParsing: true,
		Annotations:        map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseGeocodeArgs(args)
			if err != nil {
				return err
			}
			if parsed.help {
				return cmd.Help()
			}
			if len(parsed.coords) != 2 {
				return fmt.Errorf("accepts 2 arg(s), received %d", len(parsed.coords))
			}
			if parsed.configPath != "" && ctx.configFlag != nil {
				*ctx.configFlag = parsed.configPath
			}

			lat, err := strconv.ParseFloat(parsed.coords[0], 64)
			if err != nil || lat < -90 || lat > 90 {
				return fmt.Errorf("invalid latitude %q", parsed.coords[0])
			}
			lon, err := strconv.ParseFloat(parsed.coords[1], 64)
			if err != nil || lon < -180 || lon > 180 {
				return fmt.Errorf("invalid longitude %q", parsed.coords[1])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.ReverseGeocoding.Enabled {
				return geocode.ErrDisabled
			}
			index := newIndex(cfg, logging.NewNop())
			if err := index.Load(commandCtx(cmd)); err != nil {
				return fmt.Errorf("load gazetteer: %w", err)
			}

			place, ok := index.Lookup(lat, lon)
			if !ok {
				return errors.New("gazetteer holds no places")
			}
			names := geocode.Resolve(place)
			fmt.Fprintln(cmd.OutOrStdout(), renderFields([][2]string{
				{"City", names.City},
				{"State", names.State},
				{"Country", names.Country},
				{"Country code", place.CountryCode},
				{"Coordinates", fmt.Sprintf("%.4f, %.4f", place.Latitude, place.Longitude)},
			}))
			return nil
		},
	}
}

type geocodeArgs struct {
	configPath string
	coords     []string
	help       bool
}

// parseGeocodeArgs separates the config and help flags from the coordinate
// arguments. Anything that parses as a number is a coordinate.
func parseGeocodeArgs(args []string) (geocodeArgs, error) {
	var out geocodeArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			out.coords = append(out.coords, args[i+1:]...)
			return out, nil
		case arg == "-h" || arg == "--help":
			out.help = true
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return out, fmt.Errorf("flag needs an argument: %s", arg)
			}
			out.configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			out.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && !isNumeric(arg):
			return out, fmt.Errorf("unknown flag: %s", arg)
		default:
			out.coords = append(out.coords, arg)
		}
	}
	return out, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
