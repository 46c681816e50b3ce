package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMigration()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMigration() {
	c.Migration.SourceTimezone = strings.TrimSpace(c.Migration.SourceTimezone)
	if c.Migration.SourceTimezone == "" {
		c.Migration.SourceTimezone = defaultSourceTimezone
	}
	c.Migration.PhoneRegion = strings.ToUpper(strings.TrimSpace(c.Migration.PhoneRegion))
	if c.Migration.PhoneRegion == "" {
		c.Migration.PhoneRegion = defaultPhoneRegion
	}
	c.Migration.StatusPolicy = strings.ToLower(strings.TrimSpace(c.Migration.StatusPolicy))
	if c.Migration.StatusPolicy == "" {
		c.Migration.StatusPolicy = defaultStatusPolicy
	}
	c.Migration.PhonePolicy = strings.ToLower(strings.TrimSpace(c.Migration.PhonePolicy))
	if c.Migration.PhonePolicy == "" {
		c.Migration.PhonePolicy = defaultPhonePolicy
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
