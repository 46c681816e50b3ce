package config

const (
	defaultSourceDir      = "data"
	defaultTargetDir      = "target_data"
	defaultLogDir         = "~/.local/share/medshift/logs"
	defaultSourceTimezone = "America/New_York"
	defaultPhoneRegion    = "US"
	defaultStatusPolicy   = "reject"
	defaultPhonePolicy    = "null"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
		},
		Migration: Migration{
			SourceTimezone: defaultSourceTimezone,
			PhoneRegion:    defaultPhoneRegion,
			StatusPolicy:   defaultStatusPolicy,
			PhonePolicy:    defaultPhonePolicy,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
