// Package config loads, normalizes, and validates mediameta configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides for the
// reverse-geocoding switches (MEDIAMETA_DISABLE_REVERSE_GEOCODING,
// MEDIAMETA_REVERSE_GEOCODING_PRECISION and
// MEDIAMETA_REVERSE_GEOCODING_DUMP_DIRECTORY). The Config type centralizes
// every knob the CLI and extraction workers need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
