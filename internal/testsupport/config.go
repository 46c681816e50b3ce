// Package testsupport provides shared helpers for package tests: temp-dir
// configs, source CSV fixtures, and store construction.
package testsupport

import (
	"path/filepath"
	"testing"

	"medshift/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "data")
	cfg.Paths.TargetDir = filepath.Join(base, "target_data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithStatusPolicy overrides the status policy on the test config.
func WithStatusPolicy(policy string) ConfigOption {
	return func(c *config.Config) {
		c.Migration.StatusPolicy = policy
	}
}

// WithPhonePolicy overrides the phone policy on the test config.
func WithPhonePolicy(policy string) ConfigOption {
	return func(c *config.Config) {
		c.Migration.PhonePolicy = policy
	}
}
