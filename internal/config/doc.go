// Package config loads, normalizes, and validates the TOML configuration
// shared by the marquee daemon and CLI. Paths are expanded to absolute form
// during Load, and credentials absent from the file fall back to
// environment variables.
package config
