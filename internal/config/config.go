// Package config handles renderer preference loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Faultbox/renderctl/pkg/renderers"
)

// Config holds all exporter settings.
type Config struct {
	Prefix  string        `yaml:"prefix"` // inserted before the renderer executable
	Cycles  BackendConfig `yaml:"cycles"`
	PovRay  BackendConfig `yaml:"povray"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig holds per-renderer executable settings.
type BackendConfig struct {
	Path       string `yaml:"path"`       // renderer executable
	Parameters string `yaml:"parameters"` // extra command-line arguments
}

// OutputConfig holds default render output settings.
type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Width:  800,
			Height: 600,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// BackendPrefs resolves the invocation preferences for a backend by name.
func (c *Config) BackendPrefs(name string) (renderers.Prefs, error) {
	var bc BackendConfig
	switch strings.ToLower(name) {
	case "cycles":
		bc = c.Cycles
	case "povray":
		bc = c.PovRay
	default:
		return renderers.Prefs{}, fmt.Errorf("no preferences for backend %q", name)
	}
	return renderers.Prefs{
		Prefix: c.Prefix,
		Path:   bc.Path,
		Args:   bc.Parameters,
	}, nil
}
