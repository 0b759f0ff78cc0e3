// Package config loads, normalizes, and validates shelfpick configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI needs:
// data locations, matching thresholds, selection quotas, and logging.
package config
