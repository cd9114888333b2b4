// Package config loads, normalizes, and validates modq configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MODQ_API_TOKEN. The Config type centralizes every knob the daemon and the
// reviewer CLI need, so data directories, bind addresses, and polling
// intervals are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
