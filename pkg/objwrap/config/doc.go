/*
Package config loads YAML and JSON documents into schema-fixed wrappers and
provides type-safe value extraction from them.

# Overview

A Config is backed by an objwrap.Wrapper[any]. The top-level keys of the
document become the wrapper's schema, in document order. Typed accessors
handle missing keys and type mismatches by returning default values.

# Basic Usage

	cfg, err := config.FromFile("settings.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	timeout := cfg.Duration("timeout", 10*time.Second)
	retries := cfg.Int("retries", 5)

	// Values of existing keys can change; new keys cannot be added.
	cfg.Wrapper().Set("retries", 7)   // true
	cfg.Wrapper().Set("unknown", 1)   // false

# Type Coercion

Duration accepts strings ("30s", "1h30m"), numbers as seconds and
time.Duration. Int accepts float64 only without a fractional part.

# Number Types

YAML integers decode as int. JSON numbers decode as float64, as with
encoding/json.
*/
package config
