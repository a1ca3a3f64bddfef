package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	envDisableReverseGeocoding = "MEDIAMETA_DISABLE_REVERSE_GEOCODING"
	envGeocodingPrecision      = "MEDIAMETA_REVERSE_GEOCODING_PRECISION"
	envGeocodingDumpDirectory  = "MEDIAMETA_REVERSE_GEOCODING_DUMP_DIRECTORY"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeReverseGeocoding(); err != nil {
		return err
	}
	c.normalizeProbe()
	c.normalizeWorkers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReverseGeocoding() error {
	if value, ok := os.LookupEnv(envDisableReverseGeocoding); ok {
		disabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", envDisableReverseGeocoding, err)
		}
		if disabled {
			c.ReverseGeocoding.Enabled = false
		}
	}
	if value, ok := os.LookupEnv(envGeocodingPrecision); ok && strings.TrimSpace(value) != "" {
		precision, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", envGeocodingPrecision, err)
		}
		c.ReverseGeocoding.Precision = precision
	}
	if value, ok := os.LookupEnv(envGeocodingDumpDirectory); ok && strings.TrimSpace(value) != "" {
		c.ReverseGeocoding.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.ReverseGeocoding.DataDir) == "" {
		c.ReverseGeocoding.DataDir = defaultGeodataDir
	}
	var err error
	if c.ReverseGeocoding.DataDir, err = expandPath(c.ReverseGeocoding.DataDir); err != nil {
		return fmt.Errorf("reverse_geocoding.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeout
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.ImageConcurrency == 0 {
		c.Workers.ImageConcurrency = defaultImageConcurrency
	}
	if c.Workers.VideoConcurrency == 0 {
		c.Workers.VideoConcurrency = defaultVideoConcurrency
	}
	if c.Workers.GeocodeConcurrency == 0 {
		c.Workers.GeocodeConcurrency = defaultGeocodeConcurrency
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
