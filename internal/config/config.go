package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	TargetDir string `toml:"target_dir"`
	LogDir    string `toml:"log_dir"`
}

// Migration contains the transformation policies of a run.
type Migration struct {
	SourceTimezone string `toml:"source_timezone"`
	PhoneRegion    string `toml:"phone_region"`
	StatusPolicy   string `toml:"status_policy"`
	PhonePolicy    string `toml:"phone_policy"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration document.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Migration Migration `toml:"migration"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/medshift/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("medshift.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ and returns the cleaned absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.TargetCSVDir(),
		c.FailedDir(),
		filepath.Dir(c.DatabasePath()),
		c.Paths.LogDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Source CSV locations, fixed file names inside the source directory.
func (c *Config) SourcePatientsCSV() string {
	return filepath.Join(c.Paths.SourceDir, "patients_data.csv")
}

func (c *Config) SourceAppointmentsCSV() string {
	return filepath.Join(c.Paths.SourceDir, "appointments_data.csv")
}

func (c *Config) SourceInvoicesCSV() string {
	return filepath.Join(c.Paths.SourceDir, "invoices_data.csv")
}

// TargetCSVDir is where validated records are written as CSV.
func (c *Config) TargetCSVDir() string {
	return filepath.Join(c.Paths.TargetDir, "target")
}

// FailedDir is where rejected-record exports are written.
func (c *Config) FailedDir() string {
	return filepath.Join(c.Paths.TargetDir, "failed")
}

// DatabasePath is the SQLite database the migration upserts into.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.TargetDir, "db_export", "export.db")
}

// ReportPath is where the reconciliation report JSON is written.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Paths.TargetDir, "reconcile_report.json")
}

// SourceLocation resolves the configured source civil timezone.
func (c *Config) SourceLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Migration.SourceTimezone)
	if err != nil {
		return nil, fmt.Errorf("load source timezone %q: %w", c.Migration.SourceTimezone, err)
	}
	return loc, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
