// Package config loads the optional application configuration file.
// CLI flags override individual fields after loading.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration.
type Config struct {
	// Driver selects the input driver: robotgo, chromedp or nop.
	Driver string

	// Tolerance is the per-channel color match tolerance.
	Tolerance uint8

	// PollInterval is the wait between color searches while a mouse
	// event blocks on an absent target.
	PollInterval time.Duration

	// Browser configures the chromedp driver.
	Browser Browser

	// Logging configures file logging in prod builds.
	Logging Logging
}

// Browser holds chromedp driver settings.
type Browser struct {
	TargetURL      string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	UserDataDir    string
}

// Logging holds log file settings.
type Logging struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Driver:       "robotgo",
		Tolerance:    10,
		PollInterval: 500 * time.Millisecond,
		Browser: Browser{
			Headless:       false,
			ViewportWidth:  1080,
			ViewportHeight: 720,
		},
		Logging: Logging{
			MaxSizeMB:  50,
			MaxBackups: 10,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// yamlConfig mirrors the config file structure.
type yamlConfig struct {
	Driver       string      `yaml:"driver"`
	Tolerance    *uint8      `yaml:"tolerance"`
	PollInterval duration    `yaml:"pollInterval"`
	Browser      yamlBrowser `yaml:"browser"`
	Logging      yamlLogging `yaml:"logging"`
}

type yamlBrowser struct {
	TargetURL      string `yaml:"targetUrl"`
	Headless       *bool  `yaml:"headless"`
	ViewportWidth  int    `yaml:"viewportWidth"`
	ViewportHeight int    `yaml:"viewportHeight"`
	UserDataDir    string `yaml:"userDataDir"`
}

type yamlLogging struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   *bool  `yaml:"compress"`
}

// duration is a wrapper for time.Duration that handles YAML parsing.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a YAML config document, merging it over the defaults.
func Parse(data []byte) (*Config, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()
	if yc.Driver != "" {
		cfg.Driver = yc.Driver
	}
	if yc.Tolerance != nil {
		cfg.Tolerance = *yc.Tolerance
	}
	if yc.PollInterval != 0 {
		cfg.PollInterval = time.Duration(yc.PollInterval)
	}

	if yc.Browser.TargetURL != "" {
		cfg.Browser.TargetURL = yc.Browser.TargetURL
	}
	if yc.Browser.Headless != nil {
		cfg.Browser.Headless = *yc.Browser.Headless
	}
	if yc.Browser.ViewportWidth > 0 {
		cfg.Browser.ViewportWidth = yc.Browser.ViewportWidth
	}
	if yc.Browser.ViewportHeight > 0 {
		cfg.Browser.ViewportHeight = yc.Browser.ViewportHeight
	}
	if yc.Browser.UserDataDir != "" {
		cfg.Browser.UserDataDir = yc.Browser.UserDataDir
	}

	if yc.Logging.Dir != "" {
		cfg.Logging.Dir = yc.Logging.Dir
	}
	if yc.Logging.MaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = yc.Logging.MaxSizeMB
	}
	if yc.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = yc.Logging.MaxBackups
	}
	if yc.Logging.MaxAgeDays > 0 {
		cfg.Logging.MaxAgeDays = yc.Logging.MaxAgeDays
	}
	if yc.Logging.Compress != nil {
		cfg.Logging.Compress = *yc.Logging.Compress
	}

	return cfg, nil
}
