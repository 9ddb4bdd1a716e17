// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"os"
	"time"

	"github.com/luxfi/kurento"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	urlEnvVarName    = "KMSCTL_URL"
	configEnvVarName = "KMSCTL_CONFIG"

	defaultURL             = "ws://localhost:8888/kurento"
	defaultConnectAttempts = 3
	defaultLogLevel        = "info"
)

// Config holds the settings that may come from a configuration file.
type Config struct {
	URL             string        `yaml:"url"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	ConnectAttempts int           `yaml:"connectAttempts"`
	LogLevel        string        `yaml:"logLevel"`
}

// NewConfig returns a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		URL:             defaultURL,
		RequestTimeout:  kurento.DefaultRequestTimeout,
		ConnectAttempts: defaultConnectAttempts,
		LogLevel:        defaultLogLevel,
	}
}

// LoadConfig reads the yaml file at path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := NewConfig()
	if path == "" {
		return config, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read configuration file %s", path)
	}

	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse configuration file %s", path)
	}

	return config, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("Media server URL must be set")
	}

	if c.ConnectAttempts < 1 {
		return errors.Errorf("Connect attempts must be at least 1, got %d", c.ConnectAttempts)
	}

	if c.RequestTimeout < 0 {
		return errors.Errorf("Request timeout must not be negative, got %s", c.RequestTimeout)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("Unknown log level: %s", c.LogLevel)
	}

	return nil
}
