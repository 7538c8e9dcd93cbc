// Package config loads and merges codementor configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODEMENTOR_API_BASE_URL, CODEMENTOR_LANGUAGE,
//     CODEMENTOR_STREAM, etc.), optionally seeded from .env.local and .env
//  3. Config file ($XDG_CONFIG_HOME/codementor/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key.
package config
