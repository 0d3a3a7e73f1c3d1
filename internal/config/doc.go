// Package config loads, normalizes, and validates easel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: directories, the API bind address, the reservation
// lease duration, and the label taxonomy offered to annotators.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
