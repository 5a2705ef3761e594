// Package config loads, normalizes, and validates clipmark configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLIPMARK_REDIS_PASSWORD. The Config type centralizes every knob the CLI,
// the terminal editor, and the local API need, so storage backends, the edit
// debounce window, and playback wiring are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
