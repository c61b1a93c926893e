// Package config loads, normalizes, and validates shortlist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: data and log directories, the API bind address, session
// lifetimes, feed buffering, and maintenance schedules.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
