// Package config loads the livedom.yaml project configuration used by
// livedomc.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/livefir/livedom/internal/validation"
)

const (
	// ConfigFileName is the name of the project config file
	ConfigFileName = "livedom.yaml"

	// DefaultSuffix marks template description files
	DefaultSuffix = ".dom.yaml"

	// DefaultRuntimeImport is imported by generated code for its helpers
	DefaultRuntimeImport = "github.com/livefir/livedom"

	// DefaultDOMImport is imported by generated code for the document interfaces
	DefaultDOMImport = "github.com/livefir/livedom/dom"
)

// Config represents the livedom project configuration
type Config struct {
	// TemplatePaths are directories searched for template descriptions.
	// Relative paths are resolved against the project directory.
	TemplatePaths []string `yaml:"template_paths,omitempty" validate:"dive,required"`

	// Suffix selects description files inside TemplatePaths
	Suffix string `yaml:"suffix,omitempty" validate:"required,startswith=."`

	// RuntimeImport and DOMImport override the import paths written into
	// generated files, for forks of the runtime
	RuntimeImport string `yaml:"runtime_import,omitempty" validate:"required"`
	DOMImport     string `yaml:"dom_import,omitempty" validate:"required"`

	// Minify makes livedomc render emit minified HTML
	Minify bool `yaml:"minify,omitempty"`

	// Verbose enables debug logging
	Verbose bool `yaml:"verbose,omitempty"`

	// Version tracks the config file version for future migrations
	Version string `yaml:"version,omitempty"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		TemplatePaths: []string{},
		Suffix:        DefaultSuffix,
		RuntimeImport: DefaultRuntimeImport,
		DOMImport:     DefaultDOMImport,
		Version:       "1.0",
	}
}

// Path returns the config file path for a project directory
func Path(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// Load loads the configuration from dir/livedom.yaml.
// If the file doesn't exist, returns a default config.
func Load(dir string) (*Config, error) {
	configPath := Path(dir)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing fields keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// Save writes the configuration to dir/livedom.yaml
func Save(dir string, config *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AddTemplatePath adds a template directory to the config
func (c *Config) AddTemplatePath(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	for _, p := range c.TemplatePaths {
		if p == absPath {
			return fmt.Errorf("path already exists in config: %s", absPath)
		}
	}

	c.TemplatePaths = append(c.TemplatePaths, absPath)
	return nil
}

// RemoveTemplatePath removes a template directory from the config
func (c *Config) RemoveTemplatePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path // Use as-is if can't resolve
	}

	found := false
	newPaths := []string{}
	for _, p := range c.TemplatePaths {
		if p != absPath {
			newPaths = append(newPaths, p)
		} else {
			found = true
		}
	}

	if !found {
		return fmt.Errorf("path not found in config: %s", path)
	}

	c.TemplatePaths = newPaths
	return nil
}

// SearchPaths returns the template directories, resolved against dir.
// With none configured the project directory itself is searched.
func (c *Config) SearchPaths(dir string) []string {
	if len(c.TemplatePaths) == 0 {
		return []string{dir}
	}
	paths := make([]string, 0, len(c.TemplatePaths))
	for _, p := range c.TemplatePaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

var validate = validation.New()

// Validate checks the field constraints of the configuration
func (c *Config) Validate() error {
	return validation.Struct(validate, c)
}
