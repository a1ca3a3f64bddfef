package config

const (
	defaultDataDir            = "~/.local/share/mediameta"
	defaultLogDir             = "~/.local/share/mediameta/logs"
	defaultGeodataDir         = "~/.local/share/mediameta/geodata"
	defaultGeocodingPrecision = 3
	defaultFFprobeBinary      = "ffprobe"
	defaultProbeTimeout       = 60
	defaultImageConcurrency   = 5
	defaultVideoConcurrency   = 2
	defaultGeocodeConcurrency = 5
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"

	// MaxGeocodingPrecision is the densest gazetteer tier (cities500).
	MaxGeocodingPrecision = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		ReverseGeocoding: ReverseGeocoding{
			Enabled:   true,
			Precision: defaultGeocodingPrecision,
			DataDir:   defaultGeodataDir,
		},
		Probe: Probe{
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultProbeTimeout,
		},
		Workers: Workers{
			ImageConcurrency:   defaultImageConcurrency,
			VideoConcurrency:   defaultVideoConcurrency,
			GeocodeConcurrency: defaultGeocodeConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
