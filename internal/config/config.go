package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/important/internal/catalog"
	"github.com/harrison/important/internal/fileutil"
	"github.com/harrison/important/internal/logger"
	"github.com/harrison/important/internal/metadata"
)

// FileName is the optional per-directory configuration file.
const FileName = ".important.yaml"

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "IMPORTANT_CONFIG"

// Config represents the tool's configuration options
type Config struct {
	// WorkDir is the directory relative paths, the catalog and the default
	// search root are resolved against. It is set by the caller, never read
	// from the file.
	WorkDir string `yaml:"-"`

	// CatalogFile is the fallback catalog, relative to WorkDir unless absolute
	CatalogFile string `yaml:"catalog_file"`

	// Attribute is the extended attribute name holding the mark
	Attribute string `yaml:"attribute"`

	// LogLevel sets the diagnostic verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Color controls colored diagnostics (auto, always, never)
	Color string `yaml:"color"`

	// LockCatalog serializes catalog writes across processes
	LockCatalog bool `yaml:"lock_catalog"`

	// Metadata enables the extended attribute backend; when false every mark
	// goes to the catalog
	Metadata bool `yaml:"metadata"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig(workDir string) *Config {
	return &Config{
		WorkDir:     workDir,
		CatalogFile: catalog.DefaultFileName,
		Attribute:   metadata.DefaultAttribute,
		LogLevel:    "info",
		Color:       logger.ColorAuto,
		LockCatalog: true,
		Metadata:    true,
	}
}

// LoadConfig loads configuration from the specified file path on top of the
// defaults. A missing file is not an error; a malformed one is.
func LoadConfig(path string, workDir string) (*Config, error) {
	cfg := DefaultConfig(workDir)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers tell "absent" apart from zero values.
	type yamlConfig struct {
		CatalogFile *string `yaml:"catalog_file"`
		Attribute   *string `yaml:"attribute"`
		LogLevel    *string `yaml:"log_level"`
		Color       *string `yaml:"color"`
		LockCatalog *bool   `yaml:"lock_catalog"`
		Metadata    *bool   `yaml:"metadata"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.CatalogFile != nil {
		cfg.CatalogFile = *yamlCfg.CatalogFile
	}
	if yamlCfg.Attribute != nil {
		cfg.Attribute = *yamlCfg.Attribute
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.Color != nil {
		cfg.Color = *yamlCfg.Color
	}
	if yamlCfg.LockCatalog != nil {
		cfg.LockCatalog = *yamlCfg.LockCatalog
	}
	if yamlCfg.Metadata != nil {
		cfg.Metadata = *yamlCfg.Metadata
	}

	return cfg, nil
}

// Path returns the configuration file to load.
// Priority order:
//  1. explicit path (the --config flag)
//  2. IMPORTANT_CONFIG environment variable
//  3. .important.yaml in workDir
func Path(explicit string, workDir string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return filepath.Join(workDir, FileName)
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(logLevel *string, color *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if color != nil {
		c.Color = *color
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.WorkDir == "" || !filepath.IsAbs(c.WorkDir) {
		return fmt.Errorf("work dir must be an absolute path, got %q", c.WorkDir)
	}

	if c.CatalogFile == "" {
		return fmt.Errorf("catalog_file cannot be empty")
	}

	if c.Attribute == "" {
		return fmt.Errorf("attribute cannot be empty")
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	switch c.Color {
	case logger.ColorAuto, logger.ColorAlways, logger.ColorNever:
	default:
		return fmt.Errorf("invalid color %q, must be one of: auto, always, never", c.Color)
	}

	return nil
}

// Resolve makes path absolute against WorkDir.
func (c *Config) Resolve(path string) string {
	return fileutil.Resolve(c.WorkDir, path)
}

// CatalogPath returns the absolute catalog location.
func (c *Config) CatalogPath() string {
	return c.Resolve(c.CatalogFile)
}
