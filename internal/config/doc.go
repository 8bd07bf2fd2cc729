// Package config loads, normalizes, and validates sampleprep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The tool is fully usable with no config
// file present; the file only exists to change external tool binaries,
// timeouts, or the target format.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
