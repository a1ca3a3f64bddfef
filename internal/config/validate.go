package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReverseGeocoding(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReverseGeocoding() error {
	if c.ReverseGeocoding.Precision < 0 || c.ReverseGeocoding.Precision > MaxGeocodingPrecision {
		return fmt.Errorf("reverse_geocoding.precision must be between 0 and %d", MaxGeocodingPrecision)
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers.ImageConcurrency < 0 {
		return errors.New("workers.image_concurrency must be positive")
	}
	if c.Workers.VideoConcurrency < 0 {
		return errors.New("workers.video_concurrency must be positive")
	}
	if c.Workers.GeocodeConcurrency < 0 {
		return errors.New("workers.geocode_concurrency must be positive")
	}
	return nil
}
