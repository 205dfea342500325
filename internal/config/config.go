// Package config provides configuration management for the thumbnail cache
// with YAML files, THUMBCACHE_* environment overrides, and compiled-in
// defaults, in that precedence order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Configuration represents the complete application configuration.
type Configuration struct {
	Global     GlobalConfig     `yaml:"global"`
	Cache      CacheConfig      `yaml:"cache"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// GlobalConfig represents global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// CacheConfig represents thumbnail cache settings.
type CacheConfig struct {
	// Directory overrides environment-driven cache root resolution.
	// Empty means resolve from XDG_CACHE_HOME or HOME.
	Directory string `yaml:"directory"`

	// SharedLookup enables reading sibling .sh_thumbnails directories
	// colocated with source files.
	SharedLookup bool `yaml:"shared_lookup"`
}

// MonitoringConfig represents monitoring settings.
type MonitoringConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsPort    int    `yaml:"metrics_port"`
	MetricsPath    string `yaml:"metrics_path"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel: "INFO",
			LogFile:  "",
		},
		Cache: CacheConfig{
			Directory:    "",
			SharedLookup: true,
		},
		Monitoring: MonitoringConfig{
			MetricsEnabled: false,
			MetricsPort:    9277,
			MetricsPath:    "/metrics",
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("THUMBCACHE_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("THUMBCACHE_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("THUMBCACHE_DIRECTORY"); val != "" {
		c.Cache.Directory = val
	}
	if val := os.Getenv("THUMBCACHE_SHARED_LOOKUP"); val != "" {
		c.Cache.SharedLookup = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("THUMBCACHE_METRICS_ENABLED"); val != "" {
		c.Monitoring.MetricsEnabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("THUMBCACHE_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Monitoring.MetricsPort = port
		}
	}

	return nil
}

// SaveToFile saves the configuration to a YAML file.
func (c *Configuration) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Configuration) Validate() error {
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if strings.EqualFold(c.Global.LogLevel, level) {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Cache.Directory != "" && !filepath.IsAbs(c.Cache.Directory) {
		return fmt.Errorf("cache directory must be absolute: %s", c.Cache.Directory)
	}

	if c.Monitoring.MetricsEnabled {
		if c.Monitoring.MetricsPort <= 0 || c.Monitoring.MetricsPort > 65535 {
			return fmt.Errorf("invalid metrics_port: %d", c.Monitoring.MetricsPort)
		}
	}

	return nil
}
