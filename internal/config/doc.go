// Package config loads and validates the TOML configuration for the
// migration tool: source and target locations, migration policies, and
// logging settings.
package config
