// Package config loads, normalizes, and validates voiceforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VOICEFORGE_TTS_URL
// environment override for the synthesis endpoint. Obtain settings through
// this package so downstream code receives sanitized paths and validated
// values.
package config
