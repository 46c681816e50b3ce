package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMigration(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.TargetDir == "" {
		return errors.New("paths.target_dir must be set")
	}
	return nil
}

func (c *Config) validateMigration() error {
	if _, err := c.SourceLocation(); err != nil {
		return fmt.Errorf("migration.source_timezone: %w", err)
	}
	if len(c.Migration.PhoneRegion) != 2 {
		return fmt.Errorf("migration.phone_region must be a two-letter region code, got %q", c.Migration.PhoneRegion)
	}
	switch c.Migration.StatusPolicy {
	case "reject", "coerce":
	default:
		return fmt.Errorf("migration.status_policy must be \"reject\" or \"coerce\", got %q", c.Migration.StatusPolicy)
	}
	switch c.Migration.PhonePolicy {
	case "null", "reject":
	default:
		return fmt.Errorf("migration.phone_policy must be \"null\" or \"reject\", got %q", c.Migration.PhonePolicy)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
