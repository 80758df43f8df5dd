// Package config loads, normalizes, and validates cargo-sweep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads the optional TOML file at
// ~/.config/cargo-sweep/config.toml. Always obtain settings through this
// package so downstream code receives sanitized paths and clear validation
// errors.
package config
