// Package config loads the client configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for fields absent from the configuration file.
const (
	DefaultAPIURL         = "https://cloud-api.swiftmobility.eu"
	DefaultTimeoutSeconds = 120
)

// EnvAPIURL overrides the api url; it allows pointing the client at a test
// deployment of the cloud api.
const EnvAPIURL = "smc_api_url"

// Config is the client configuration.
type Config struct {
	// APIURL is the base url of the cloud api.
	APIURL string `yaml:"api_url"`
	// AuthURL is the authentication endpoint; empty selects the production
	// endpoint.
	AuthURL string `yaml:"auth_url"`
	// TimeoutSeconds bounds each api call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       "info",
	}
	return cfg.withEnvOverrides()
}

// Load reads a YAML configuration file, fills in defaults and applies
// environment overrides.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg.withEnvOverrides(), nil
}

func (c Config) withEnvOverrides() Config {
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.APIURL = url
	}
	return c
}
