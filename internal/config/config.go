// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format        string `yaml:"format"`
		Column        string `yaml:"column"`
		Workers       int    `yaml:"workers"`
		Debug         bool   `yaml:"debug"`
		NoColor       bool   `yaml:"no_color"`
		FailOnFinding bool   `yaml:"fail_on_finding"`
	} `yaml:"defaults"`

	// Decision engine settings
	Engine struct {
		ClassifierAcceptance float64 `yaml:"classifier_acceptance"`
		ReviewFloor          float64 `yaml:"review_floor"`
		ModelPath            string  `yaml:"model_path"`
	} `yaml:"engine"`

	// Profiles for different triage scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a triage profile with specific settings
type Profile struct {
	Format        string `yaml:"format"`
	Column        string `yaml:"column"`
	Workers       int    `yaml:"workers"`
	Debug         bool   `yaml:"debug"`
	NoColor       bool   `yaml:"no_color"`
	FailOnFinding bool   `yaml:"fail_on_finding"`
	ModelPath     string `yaml:"model_path"`
	Description   string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Column = "texto"
	config.Defaults.Workers = 4
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Defaults.FailOnFinding = false

	config.Engine.ClassifierAcceptance = 0.75
	config.Engine.ReviewFloor = 0.60
	config.Engine.ModelPath = ""

	// Add default batch profile tuned for unattended runs
	config.Profiles["batch"] = Profile{
		Format:      "csv",
		Column:      "texto",
		Workers:     8,
		NoColor:     true,
		Description: "Optimized for unattended batch triage with machine-readable output",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	// Read config file
	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Restore engine defaults when the config file leaves them unset.
	// YAML unmarshaling zeroes numeric fields that are absent from the file.
	if config.Engine.ClassifierAcceptance == 0 {
		config.Engine.ClassifierAcceptance = 0.75
	}
	if config.Engine.ReviewFloor == 0 {
		config.Engine.ReviewFloor = 0.60
	}
	if config.Defaults.Workers == 0 {
		config.Defaults.Workers = 4
	}
	if config.Defaults.Column == "" {
		config.Defaults.Column = "texto"
	}
	if config.Defaults.Format == "" {
		config.Defaults.Format = "text"
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks the loaded configuration for values the engine
// cannot operate with
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown output format: %s", config.Defaults.Format)
	}

	if config.Engine.ClassifierAcceptance < 0 || config.Engine.ClassifierAcceptance > 1 {
		return fmt.Errorf("classifier_acceptance must be within [0, 1], got %v", config.Engine.ClassifierAcceptance)
	}
	if config.Engine.ReviewFloor < 0 || config.Engine.ReviewFloor > 1 {
		return fmt.Errorf("review_floor must be within [0, 1], got %v", config.Engine.ReviewFloor)
	}
	if config.Engine.ReviewFloor > config.Engine.ClassifierAcceptance {
		return fmt.Errorf("review_floor (%v) cannot exceed classifier_acceptance (%v)",
			config.Engine.ReviewFloor, config.Engine.ClassifierAcceptance)
	}

	if config.Defaults.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", config.Defaults.Workers)
	}

	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize config.yaml
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if fileExists("lgpd-triage.yaml") {
		return "lgpd-triage.yaml"
	}
	if fileExists("lgpd-triage.yml") {
		return "lgpd-triage.yml"
	}

	// Check for .lgpd-triage.yaml in current directory (project-specific config)
	if fileExists(".lgpd-triage.yaml") {
		return ".lgpd-triage.yaml"
	}
	if fileExists(".lgpd-triage.yml") {
		return ".lgpd-triage.yml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// Check legacy locations in home directory
	homeConfig := filepath.Join(home, ".lgpd-triage.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}
	homeConfig = filepath.Join(home, ".lgpd-triage.yml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	// Check XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	xdgConfigFile := filepath.Join(xdgConfig, "lgpd-triage", "config.yaml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}
	xdgConfigFile = filepath.Join(xdgConfig, "lgpd-triage", "config.yml")
	if fileExists(xdgConfigFile) {
		return xdgConfigFile
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}
